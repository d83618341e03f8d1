package scheduler

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running bubbletea program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// TaskMsg carries a scheduled task into a bubbletea Update loop. The host model
// must call Run when it receives one.
type TaskMsg struct {
	task Task
}

// Run executes the carried task.
func (m TaskMsg) Run() {
	if m.task != nil {
		m.task()
	}
}

// Tea schedules tasks onto a bubbletea program. Tasks are forwarded in order by a
// single goroutine so Schedule never blocks, even when called from inside Update.
type Tea struct {
	sender Sender

	mu      sync.Mutex
	pending []Task
	wake    chan struct{}
	closed  bool
	done    chan struct{}
}

// NewTea creates a Tea scheduler and starts its forwarder goroutine.
func NewTea(sender Sender) *Tea {
	if sender == nil {
		panic("scheduler.NewTea: sender cannot be nil")
	}
	t := &Tea{
		sender: sender,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go t.forward()
	return t
}

// Schedule appends task to the forwarding queue.
func (t *Tea) Schedule(task Task) {
	if task == nil {
		return
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.pending = append(t.pending, task)
	// Signal under the lock so Close cannot close wake concurrently.
	select {
	case t.wake <- struct{}{}:
	default:
	}
	t.mu.Unlock()
}

// Close stops forwarding after the tasks already queued have been sent.
func (t *Tea) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.wake)
	t.mu.Unlock()

	<-t.done
}

func (t *Tea) forward() {
	defer close(t.done)

	for range t.wake {
		for {
			t.mu.Lock()
			if len(t.pending) == 0 {
				t.mu.Unlock()
				break
			}
			batch := t.pending
			t.pending = nil
			t.mu.Unlock()

			for _, task := range batch {
				t.sender.Send(TaskMsg{task: task})
			}
		}
	}
}
