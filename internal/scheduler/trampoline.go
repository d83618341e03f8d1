package scheduler

import "sync"

// Trampoline runs tasks on the calling goroutine. A task scheduled while another
// task is running is queued and run by the outermost Schedule call once the
// current task returns.
type Trampoline struct {
	mu      sync.Mutex
	pending []Task
	running bool
}

// NewTrampoline creates a Trampoline.
func NewTrampoline() *Trampoline {
	return &Trampoline{}
}

// Schedule queues task and drains the queue unless a drain is already in progress.
func (t *Trampoline) Schedule(task Task) {
	if task == nil {
		return
	}
	t.mu.Lock()
	t.pending = append(t.pending, task)
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.drain()
}

func (t *Trampoline) drain() {
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	for {
		t.mu.Lock()
		if len(t.pending) == 0 {
			t.mu.Unlock()
			return
		}
		task := t.pending[0]
		t.pending[0] = nil
		t.pending = t.pending[1:]
		t.mu.Unlock()

		task()
	}
}
