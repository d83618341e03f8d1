package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrampolineRunsInlineInOrder(t *testing.T) {
	tr := NewTrampoline()

	var order []int
	tr.Schedule(func() { order = append(order, 1) })
	tr.Schedule(func() { order = append(order, 2) })

	assert.Equal(t, []int{1, 2}, order)
}

func TestTrampolineQueuesNestedTasks(t *testing.T) {
	tr := NewTrampoline()

	var order []string
	tr.Schedule(func() {
		order = append(order, "outer-start")
		tr.Schedule(func() { order = append(order, "nested") })
		order = append(order, "outer-end")
	})

	assert.Equal(t, []string{"outer-start", "outer-end", "nested"}, order)
}

func TestTrampolineRecoversAfterPanic(t *testing.T) {
	tr := NewTrampoline()

	require.Panics(t, func() {
		tr.Schedule(func() { panic("boom") })
	})

	ran := false
	tr.Schedule(func() { ran = true })
	assert.True(t, ran)
}

func TestQueuePreservesFIFOOrder(t *testing.T) {
	q := NewQueue(4, nil)
	q.Start(context.Background())

	var mu sync.Mutex
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		q.Schedule(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	q.Stop()

	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestQueueTasksDoNotInterleave(t *testing.T) {
	q := NewQueue(0, nil)
	q.Start(context.Background())

	var mu sync.Mutex
	running := 0
	maxRunning := 0
	for i := 0; i < 20; i++ {
		q.Schedule(func() {
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	q.Stop()

	assert.Equal(t, 1, maxRunning)
}

func TestQueueRunsTasksScheduledBeforeStart(t *testing.T) {
	q := NewQueue(1, nil)

	done := make(chan struct{})
	q.Schedule(func() { close(done) })
	assert.Equal(t, 1, q.Pending())

	q.Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	q.Stop()
}

func TestQueueRejectsAfterStop(t *testing.T) {
	q := NewQueue(1, nil)
	q.Start(context.Background())
	q.Stop()

	err := q.TrySchedule(func() {})
	require.ErrorIs(t, err, ErrStopped)

	// Stop is idempotent.
	q.Stop()
}

func TestQueueStopsOnContextCancel(t *testing.T) {
	q := NewQueue(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)

	ran := make(chan struct{})
	require.NoError(t, q.TrySchedule(func() { close(ran) }))
	<-ran

	cancel()
	require.Eventually(t, func() bool {
		return q.TrySchedule(func() {}) != nil
	}, time.Second, 5*time.Millisecond)
}

func TestQueueSurvivesPanickingTask(t *testing.T) {
	q := NewQueue(2, nil)
	q.Start(context.Background())

	ran := false
	q.Schedule(func() { panic("boom") })
	q.Schedule(func() { ran = true })
	q.Stop()

	assert.True(t, ran)
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *recordingSender) snapshot() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tea.Msg, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func TestTeaForwardsTasksInOrder(t *testing.T) {
	sender := &recordingSender{}
	sched := NewTea(sender)

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		sched.Schedule(func() { order = append(order, i) })
	}
	sched.Close()

	msgs := sender.snapshot()
	require.Len(t, msgs, 10)
	for _, msg := range msgs {
		taskMsg, ok := msg.(TaskMsg)
		require.True(t, ok)
		taskMsg.Run()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestTeaIgnoresTasksAfterClose(t *testing.T) {
	sender := &recordingSender{}
	sched := NewTea(sender)
	sched.Close()
	sched.Close()

	sched.Schedule(func() {})
	assert.Empty(t, sender.snapshot())
}

func TestNewTeaPanicsOnNilSender(t *testing.T) {
	assert.Panics(t, func() { NewTea(nil) })
}

func TestLoopDefersUntilDrained(t *testing.T) {
	l := NewLoop()

	var order []int
	l.Schedule(func() { order = append(order, 1) })
	l.Schedule(func() { order = append(order, 2) })
	l.Schedule(nil)

	assert.Empty(t, order)
	assert.Equal(t, 2, l.Pending())

	assert.Equal(t, 2, l.Drain())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, l.Pending())
	assert.Equal(t, 0, l.Drain())
}

func TestLoopDrainRunsTasksScheduledWhileDraining(t *testing.T) {
	l := NewLoop()

	var order []string
	l.Schedule(func() {
		order = append(order, "outer-start")
		l.Schedule(func() { order = append(order, "nested") })
		assert.Equal(t, 0, l.Drain())
		order = append(order, "outer-end")
	})
	l.Schedule(func() { order = append(order, "second") })

	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []string{"outer-start", "outer-end", "second", "nested"}, order)
}

func TestLoopRecoversAfterPanickingTask(t *testing.T) {
	l := NewLoop()
	l.Schedule(func() { panic("boom") })

	assert.Panics(t, func() { l.Drain() })

	ran := false
	l.Schedule(func() { ran = true })
	assert.Equal(t, 1, l.Drain())
	assert.True(t, ran)
}
