// Package scheduler provides single-consumer FIFO execution contexts for UI work.
//
// Every scheduler runs tasks one at a time in submission order, so work scheduled
// onto it never interleaves. Four flavours are provided:
//
//   - Loop queues tasks until the host calls Drain.
//   - Trampoline runs tasks on the goroutine that schedules them, queueing tasks
//     scheduled from inside a running task until the outer task returns.
//   - Queue runs tasks on one dedicated goroutine.
//   - Tea hands tasks to a bubbletea program so they run inside its Update loop.
package scheduler

import "errors"

// ErrStopped is returned when a task is scheduled on a stopped Queue.
var ErrStopped = errors.New("scheduler stopped")

// Task is a unit of work run by a scheduler.
type Task func()
