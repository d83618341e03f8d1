package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/logging"
)

// Queue runs tasks on a single dedicated goroutine in FIFO order. Schedule never
// blocks; pending tasks are kept in an unbounded slice.
type Queue struct {
	logger logging.Logger

	mu      sync.Mutex
	pending []Task
	started bool
	stopped bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue creates a Queue. capacity preallocates the pending slice.
func NewQueue(capacity int, logger logging.Logger) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Queue{
		logger:  logger,
		pending: make([]Task, 0, capacity),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Cancelling ctx has the same effect as Stop
// without waiting. Tasks scheduled before Start run once it is called.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.run(ctx)
}

// Schedule submits task. Tasks submitted after Stop are dropped with a warning.
func (q *Queue) Schedule(task Task) {
	if err := q.TrySchedule(task); err != nil {
		q.logger.Warn("task dropped", "err", err)
	}
}

// TrySchedule submits task, or returns ErrStopped when the queue no longer accepts work.
// An accepted task always runs.
func (q *Queue) TrySchedule(task Task) error {
	if task == nil {
		return nil
	}
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return ErrStopped
	}
	q.pending = append(q.pending, task)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Stop stops accepting tasks and waits until every accepted task has run.
// It must not be called from inside a task.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	started := q.started
	q.mu.Unlock()

	q.signal()
	if started {
		<-q.done
	}
}

// Pending returns the number of tasks waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)

	for {
		task, stopped := q.next()
		if task != nil {
			q.execute(task)
			continue
		}
		if stopped {
			return
		}

		select {
		case <-q.wake:
		case <-ctx.Done():
			q.mu.Lock()
			q.stopped = true
			q.mu.Unlock()
		}
	}
}

// next pops the oldest pending task. With nothing pending it reports whether the
// queue has been stopped.
func (q *Queue) next() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, q.stopped
	}
	task := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return task, false
}

func (q *Queue) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	task()
}
