package scheduler

import "sync"

// Loop queues tasks until the host drains them. Schedule never runs a task, so
// a dispatch that schedules UI work returns without doing it.
type Loop struct {
	mu       sync.Mutex
	pending  []Task
	draining bool
}

// NewLoop creates an empty Loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Schedule appends task to the queue.
func (l *Loop) Schedule(task Task) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, task)
	l.mu.Unlock()
}

// Drain runs queued tasks in order on the calling goroutine, including tasks
// scheduled while it drains, and returns how many ran. A Drain call made from
// inside a running task returns 0; the outer call picks up the new work.
func (l *Loop) Drain() int {
	l.mu.Lock()
	if l.draining {
		l.mu.Unlock()
		return 0
	}
	l.draining = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.draining = false
		l.mu.Unlock()
	}()

	ran := 0
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.mu.Unlock()
			return ran
		}
		task := l.pending[0]
		l.pending[0] = nil
		l.pending = l.pending[1:]
		l.mu.Unlock()

		task()
		ran++
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
