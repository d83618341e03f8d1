package presenter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/scheduler"
	"github.com/cristianoliveira/tea-presenter/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Count int
	Items []string
	Label string
}

type increment struct{}

type addItem struct{ Item string }

// copyItems replaces Items with an equal but distinct slice.
type copyItems struct{}

type setLabel struct{ Label string }

func testReducer(state testState, action store.Action) testState {
	switch a := action.(type) {
	case increment:
		state.Count++
	case addItem:
		items := make([]string, len(state.Items), len(state.Items)+1)
		copy(items, state.Items)
		state.Items = append(items, a.Item)
	case copyItems:
		state.Items = append([]string(nil), state.Items...)
	case setLabel:
		state.Label = a.Label
	}
	return state
}

type testView struct {
	Base[testState]
	presenter Presenter[testState]
	renders   []int
}

func (v *testView) Presenter() Presenter[testState] { return v.presenter }

type bareView struct {
	Base[testState]
}

type otherView struct {
	Base[testState]
}

// countView returns a view whose presenter records every Count it is synced
// with, and a pointer to the number of times the presenter was built.
func countView() (*testView, *int) {
	builds := 0
	v := &testView{}
	v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		builds++
		Select(sel, func(s testState) int { return s.Count }, func(s testState) {
			view.renders = append(view.renders, s.Count)
		})
	})
	return v, &builds
}

// newTestStore runs broadcasts on a Trampoline unless opts pick another
// scheduler, so tests observe them as soon as Dispatch returns.
func newTestStore(t *testing.T, opts ...Option) (*Middleware[testState], *store.Store[testState]) {
	t.Helper()
	opts = append([]Option{WithScheduler(scheduler.NewTrampoline())}, opts...)
	mw := New[testState](opts...)
	return mw, store.New(testReducer, testState{}, mw.Bind)
}

func TestAttachSynchronizesImmediately(t *testing.T) {
	mw, st := newTestStore(t)
	v, builds := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))

	assert.Equal(t, []int{0}, v.renders)
	assert.Equal(t, 1, *builds)
	assert.Equal(t, Stats{Registered: 1, Attached: 1, Subscribed: true}, mw.Stats())
	assert.NotNil(t, v.Selectors())
}

func TestReattachOfAttachedViewIsNoop(t *testing.T) {
	mw, st := newTestStore(t)
	v, builds := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Attach[testState](v)))

	assert.Equal(t, []int{0}, v.renders)
	assert.Equal(t, 1, *builds)
	assert.Equal(t, 1, mw.Stats().Registered)
}

func TestDetachedViewSkipsBroadcastsUntilReattached(t *testing.T) {
	mw, st := newTestStore(t)
	v, builds := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
	require.NoError(t, st.Dispatch(increment{}))

	assert.Equal(t, []int{0}, v.renders)
	lifecycle, ok := mw.Lifecycle(v.ViewID())
	require.True(t, ok)
	assert.Equal(t, Detached, lifecycle)
	assert.Equal(t, Stats{Registered: 1, Detached: 1, Subscribed: true}, mw.Stats())

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	assert.Equal(t, []int{0, 1}, v.renders)
	assert.Equal(t, 1, *builds)

	require.NoError(t, st.Dispatch(increment{}))
	assert.Equal(t, []int{0, 1, 2}, v.renders)
}

func TestDetachTwiceIsNoop(t *testing.T) {
	_, st := newTestStore(t)
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
}

func TestStoreSubscriptionFollowsRegistry(t *testing.T) {
	mw, st := newTestStore(t)
	a, _ := countView()
	b, _ := countView()

	var counts []int
	require.NoError(t, st.Dispatch(Attach[testState](a)))
	counts = append(counts, st.ListenerCount())
	require.NoError(t, st.Dispatch(Attach[testState](b)))
	counts = append(counts, st.ListenerCount())
	require.NoError(t, st.Dispatch(Clear[testState](a)))
	counts = append(counts, st.ListenerCount())
	require.NoError(t, st.Dispatch(Clear[testState](b)))
	counts = append(counts, st.ListenerCount())

	assert.Equal(t, []int{1, 1, 1, 0}, counts)
	assert.False(t, mw.Stats().Subscribed)

	// A later attach subscribes again and builds a fresh presenter.
	require.NoError(t, st.Dispatch(Attach[testState](a)))
	assert.Equal(t, 1, st.ListenerCount())
	assert.Equal(t, []int{0, 0}, a.renders)
}

func TestDetachKeepsStoreSubscription(t *testing.T) {
	_, st := newTestStore(t)
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Detach[testState](v)))

	assert.Equal(t, 1, st.ListenerCount())
}

func TestClearedViewStopsReceivingBroadcasts(t *testing.T) {
	_, st := newTestStore(t)
	a, _ := countView()
	b, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](a)))
	require.NoError(t, st.Dispatch(Attach[testState](b)))
	require.NoError(t, st.Dispatch(Clear[testState](a)))
	require.NoError(t, st.Dispatch(increment{}))

	assert.Equal(t, []int{0}, a.renders)
	assert.Equal(t, []int{0, 1}, b.renders)
}

func TestSelectorFiresOnlyWhenValueChanges(t *testing.T) {
	sel := NewSelectors[testState]()
	var evaluations []int
	pass := 0
	Select(sel, func(s testState) int { return s.Count }, func(testState) {
		evaluations = append(evaluations, pass)
	})

	var fired []int
	for _, count := range []int{0, 0, 1} {
		pass++
		fired = append(fired, sel.Evaluate(testState{Count: count}))
	}

	assert.Equal(t, []int{1, 3}, evaluations)
	assert.Equal(t, []int{1, 0, 1}, fired)
	assert.Equal(t, 1, sel.Len())
}

func TestAnyChangeFiresOnEveryEvaluation(t *testing.T) {
	sel := NewSelectors[testState]()
	calls := 0
	sel.WithAnyChange(func() { calls++ })

	for i := 0; i < 3; i++ {
		sel.Evaluate(testState{})
	}

	assert.Equal(t, 3, calls)
}

func TestSelectorsAreIndependent(t *testing.T) {
	sel := NewSelectors[testState]()
	var trace []string
	Select(sel, func(s testState) int { return s.Count }, func(testState) { trace = append(trace, "count") })
	Select(sel, func(s testState) string { return s.Label }, func(testState) { trace = append(trace, "label") })

	sel.Evaluate(testState{})
	sel.Evaluate(testState{Label: "x"})
	sel.Evaluate(testState{Count: 1, Label: "x"})

	assert.Equal(t, []string{"count", "label", "label", "count"}, trace)
}

func TestSelectorCallbackSeesEvaluatedState(t *testing.T) {
	sel := NewSelectors[testState]()
	var labels []string
	Select(sel, func(s testState) int { return s.Count }, func(testState) {
		labels = append(labels, sel.State().Label)
	})

	sel.Evaluate(testState{Label: "first"})
	sel.Evaluate(testState{Count: 1, Label: "second"})

	assert.Equal(t, []string{"first", "second"}, labels)
}

func TestSelectFuncUsesCustomEquality(t *testing.T) {
	sel := NewSelectors[testState]()
	calls := 0
	SelectFunc(sel, func(s testState) int { return s.Count }, func(a, b int) bool {
		return a/10 == b/10
	}, func(testState) { calls++ })

	for _, count := range []int{1, 5, 9, 12} {
		sel.Evaluate(testState{Count: count})
	}

	assert.Equal(t, 2, calls)
}

func TestSelectStructuralComparesSlicesByContent(t *testing.T) {
	_, st := newTestStore(t)
	v := &testView{}
	var seen [][]string
	v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		SelectStructural(sel, func(s testState) []string { return s.Items }, func(s testState) {
			seen = append(seen, s.Items)
		})
	})

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(addItem{Item: "milk"}))
	require.NoError(t, st.Dispatch(copyItems{}))
	require.NoError(t, st.Dispatch(increment{}))
	require.NoError(t, st.Dispatch(addItem{Item: "eggs"}))

	assert.Equal(t, [][]string{nil, {"milk"}, {"milk", "eggs"}}, seen)
}

func TestUnrecognizedActionsReachNextInOrder(t *testing.T) {
	mw := New[testState]()
	var forwarded []store.Action
	recorder := func(api store.API[testState]) func(next store.Dispatcher) store.Dispatcher {
		return func(next store.Dispatcher) store.Dispatcher {
			return func(action store.Action) error {
				forwarded = append(forwarded, action)
				return next(action)
			}
		}
	}
	st := store.New(testReducer, testState{}, mw.Bind, recorder)
	v, _ := countView()

	require.NoError(t, st.Dispatch("first"))
	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(setLabel{Label: "x"}))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
	require.NoError(t, st.Dispatch("last"))

	assert.Equal(t, []store.Action{"first", setLabel{Label: "x"}, "last"}, forwarded)
	assert.Equal(t, "x", st.State().Label)
}

func TestClearOfAbsentViewIsNoop(t *testing.T) {
	mw, st := newTestStore(t)
	registered, _ := countView()
	absent, _ := countView()
	require.NoError(t, st.Dispatch(Attach[testState](registered)))

	require.NoError(t, st.Dispatch(Clear[testState](absent)))

	assert.Equal(t, 1, mw.Stats().Registered)
	assert.Equal(t, 1, st.ListenerCount())
}

func TestDetachOfUnknownViewFails(t *testing.T) {
	var buf bytes.Buffer
	mw, st := newTestStore(t, WithLogger(logging.NewWriter(&buf, "debug")), WithName("test"))
	v, _ := countView()

	err := st.Dispatch(Detach[testState](v))

	require.ErrorIs(t, err, ErrUnknownView)
	assert.Equal(t, Stats{}, mw.Stats())
	assert.Contains(t, buf.String(), "detach of unregistered view")
	assert.Contains(t, buf.String(), "middleware=test")
}

func TestAttachWithoutPresenterHasNoSideEffects(t *testing.T) {
	tests := []struct {
		name string
		view View[testState]
	}{
		{name: "not a provider", view: &bareView{}},
		{name: "nil presenter", view: &testView{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, st := newTestStore(t)

			err := st.Dispatch(Attach(tt.view))

			require.ErrorIs(t, err, ErrPresenterNotProvided)
			assert.Equal(t, Stats{}, mw.Stats())
			assert.Equal(t, 0, st.ListenerCount())
		})
	}
}

func TestPresenterForOtherViewTypeFails(t *testing.T) {
	mw, st := newTestStore(t)
	v := &testView{}
	v.presenter = Define(func(view *otherView, sel *Selectors[testState]) {})

	err := st.Dispatch(Attach[testState](v))

	require.ErrorIs(t, err, ErrViewTypeMismatch)
	assert.Equal(t, Stats{}, mw.Stats())
	assert.Equal(t, 0, st.ListenerCount())
}

func TestNilViewIsRejected(t *testing.T) {
	mw, st := newTestStore(t)

	require.ErrorIs(t, st.Dispatch(Attach[testState](nil)), ErrNilView)
	require.ErrorIs(t, st.Dispatch(Detach[testState](nil)), ErrNilView)
	require.ErrorIs(t, st.Dispatch(Clear[testState](nil)), ErrNilView)

	var typedNil *testView
	require.ErrorIs(t, st.Dispatch(Attach[testState](typedNil)), ErrNilView)
	require.ErrorIs(t, st.Dispatch(Detach[testState](typedNil)), ErrNilView)
	require.ErrorIs(t, st.Dispatch(Clear[testState](typedNil)), ErrNilView)

	var nilBase *Base[testState]
	assert.Equal(t, ViewID{}, nilBase.ViewID())
	require.ErrorIs(t, st.Dispatch(Attach[testState](nilBase)), ErrNilView)

	assert.Equal(t, Stats{}, mw.Stats())
	assert.Equal(t, 0, st.ListenerCount())
}

func TestBroadcastFollowsRegistrationOrder(t *testing.T) {
	_, st := newTestStore(t)
	var trace []string
	named := func(name string) *testView {
		v := &testView{}
		v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
			Select(sel, func(s testState) int { return s.Count }, func(testState) {
				trace = append(trace, name)
			})
		})
		return v
	}
	first, second, third := named("first"), named("second"), named("third")

	for _, v := range []*testView{first, second, third} {
		require.NoError(t, st.Dispatch(Attach[testState](v)))
	}
	trace = nil
	require.NoError(t, st.Dispatch(increment{}))

	assert.Equal(t, []string{"first", "second", "third"}, trace)
}

func TestBroadcastSkipsViewDetachedDuringBroadcast(t *testing.T) {
	_, st := newTestStore(t)
	second, _ := countView()
	first := &testView{}
	first.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		Select(sel, func(s testState) int { return s.Count }, func(s testState) {
			if s.Count == 1 {
				require.NoError(t, view.Dispatch(Detach[testState](second)))
			}
		})
	})

	require.NoError(t, st.Dispatch(Attach[testState](first)))
	require.NoError(t, st.Dispatch(Attach[testState](second)))
	require.NoError(t, st.Dispatch(increment{}))

	assert.Equal(t, []int{0}, second.renders)
}

func TestViewDispatchBeforeAttachFails(t *testing.T) {
	v, _ := countView()
	require.ErrorIs(t, v.Dispatch(increment{}), ErrUnknownView)
}

func TestViewCanDispatchAfterAttach(t *testing.T) {
	_, st := newTestStore(t)
	v, _ := countView()
	require.NoError(t, st.Dispatch(Attach[testState](v)))

	require.NoError(t, v.Dispatch(increment{}))

	assert.Equal(t, 1, st.State().Count)
	assert.Equal(t, []int{0, 1}, v.renders)
}

func TestBindTwicePanics(t *testing.T) {
	mw := New[testState]()
	store.New(testReducer, testState{}, mw.Bind)

	assert.Panics(t, func() {
		store.New(testReducer, testState{}, mw.Bind)
	})
}

func TestBroadcastsOnQueueScheduler(t *testing.T) {
	q := scheduler.NewQueue(8, nil)
	q.Start(context.Background())
	_, st := newTestStore(t, WithScheduler(q))
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	for i := 0; i < 3; i++ {
		require.NoError(t, st.Dispatch(increment{}))
	}
	q.Stop()

	require.NotEmpty(t, v.renders)
	assert.Equal(t, 0, v.renders[0])
	assert.Equal(t, 3, v.renders[len(v.renders)-1])
	assert.IsIncreasing(t, v.renders)
}

type recordingScheduler struct {
	tasks []scheduler.Task
}

func (r *recordingScheduler) Schedule(task scheduler.Task) {
	r.tasks = append(r.tasks, task)
}

func TestBroadcastReadsStateCurrentWhenItRuns(t *testing.T) {
	sched := &recordingScheduler{}
	_, st := newTestStore(t, WithScheduler(sched))
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(increment{}))
	require.NoError(t, st.Dispatch(increment{}))
	require.Len(t, sched.tasks, 2)

	for _, task := range sched.tasks {
		task()
	}

	assert.Equal(t, []int{0, 2}, v.renders)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordTransition(transition string) {
	m.Called(transition)
}

func (m *mockMetrics) RecordBroadcast(subscribers int, duration time.Duration) {
	m.Called(subscribers, duration)
}

func (m *mockMetrics) SetViews(attached, detached int) {
	m.Called(attached, detached)
}

func (m *mockMetrics) SetStoreSubscribed(subscribed bool) {
	m.Called(subscribed)
}

func TestMetricsAreRecorded(t *testing.T) {
	metrics := new(mockMetrics)
	metrics.On("SetStoreSubscribed", true).Return().Once()
	metrics.On("RecordTransition", TransitionAttached).Return().Once()
	metrics.On("SetViews", 1, 0).Return().Twice()
	metrics.On("RecordBroadcast", 1, mock.AnythingOfType("time.Duration")).Return().Once()
	metrics.On("RecordTransition", TransitionDetached).Return().Once()
	metrics.On("SetViews", 0, 1).Return().Once()
	metrics.On("RecordTransition", TransitionResumed).Return().Once()
	metrics.On("RecordTransition", TransitionCleared).Return().Once()
	metrics.On("SetStoreSubscribed", false).Return().Once()
	metrics.On("SetViews", 0, 0).Return().Once()

	_, st := newTestStore(t, WithMetrics(metrics))
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(increment{}))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Clear[testState](v)))

	metrics.AssertExpectations(t)
}

func TestLifecycleString(t *testing.T) {
	assert.Equal(t, "attached", Attached.String())
	assert.Equal(t, "detached", Detached.String())
	assert.Equal(t, "unknown", Lifecycle(0).String())
}

// withinTimeout fails the test when fn does not return promptly.
func withinTimeout(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

// echoView dispatches increment from its Count callback while echoes remain.
func echoView() *testView {
	v := &testView{}
	echoes := 1
	v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		Select(sel, func(s testState) int { return s.Count }, func(s testState) {
			view.renders = append(view.renders, s.Count)
			if echoes > 0 {
				echoes--
				_ = view.Dispatch(increment{})
			}
		})
	})
	return v
}

func TestDefaultSchedulerDefersBroadcastsUntilDrained(t *testing.T) {
	mw := New[testState]()
	st := store.New(testReducer, testState{}, mw.Bind)
	v, _ := countView()

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	assert.Equal(t, []int{0}, v.renders)

	require.NoError(t, st.Dispatch(increment{}))
	require.NoError(t, st.Dispatch(increment{}))
	assert.Equal(t, []int{0}, v.renders)

	assert.Equal(t, 2, mw.Drain())
	assert.Equal(t, []int{0, 2}, v.renders)
	assert.Equal(t, 0, mw.Drain())
}

func TestDrainWithoutLoopSchedulerIsNoop(t *testing.T) {
	mw, st := newTestStore(t)
	v, _ := countView()
	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(increment{}))

	assert.Equal(t, 0, mw.Drain())
	assert.Equal(t, []int{0, 1}, v.renders)
}

func TestCallbackMayDispatchDuringInitialSync(t *testing.T) {
	_, st := newTestStore(t)
	v := echoView()

	var err error
	withinTimeout(t, "attach", func() {
		err = st.Dispatch(Attach[testState](v))
	})

	require.NoError(t, err)
	assert.Equal(t, 1, st.State().Count)
	assert.Equal(t, []int{0, 1}, v.renders)
}

func TestCallbackMayDispatchDuringInitialSyncOnDefaultScheduler(t *testing.T) {
	mw := New[testState]()
	st := store.New(testReducer, testState{}, mw.Bind)
	v := echoView()

	var err error
	withinTimeout(t, "attach", func() {
		err = st.Dispatch(Attach[testState](v))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, v.renders)

	withinTimeout(t, "drain", func() { mw.Drain() })
	assert.Equal(t, []int{0, 1}, v.renders)
}

func TestCallbackMayDispatchWhenResumed(t *testing.T) {
	_, st := newTestStore(t)
	v := &testView{}
	echo := false
	v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		Select(sel, func(s testState) int { return s.Count }, func(s testState) {
			view.renders = append(view.renders, s.Count)
			if echo {
				echo = false
				_ = view.Dispatch(increment{})
			}
		})
	})

	require.NoError(t, st.Dispatch(Attach[testState](v)))
	require.NoError(t, st.Dispatch(Detach[testState](v)))
	require.NoError(t, st.Dispatch(increment{}))
	echo = true

	var err error
	withinTimeout(t, "re-attach", func() {
		err = st.Dispatch(Attach[testState](v))
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, v.renders)
}

func TestAnyChangeCallbackMayDispatchAndReadSelectors(t *testing.T) {
	_, st := newTestStore(t)
	v := &testView{}
	var lens []int
	v.presenter = Define(func(view *testView, sel *Selectors[testState]) {
		Select(sel, func(s testState) int { return s.Count }, func(s testState) {
			view.renders = append(view.renders, s.Count)
		})
		sel.WithAnyChange(func() {
			lens = append(lens, sel.Len())
			if sel.State().Count == 0 {
				_ = view.Dispatch(increment{})
			}
		})
	})

	var err error
	withinTimeout(t, "attach", func() {
		err = st.Dispatch(Attach[testState](v))
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, v.renders)
	assert.Equal(t, []int{1, 1}, lens)
}

func TestNestedEvaluateIsQueued(t *testing.T) {
	sel := NewSelectors[testState]()
	var seen []int
	Select(sel, func(s testState) int { return s.Count }, func(s testState) {
		seen = append(seen, s.Count)
		if s.Count == 0 {
			assert.Equal(t, 0, sel.Evaluate(testState{Count: 1}))
			assert.Equal(t, []int{0}, seen)
		}
	})

	fired := sel.Evaluate(testState{})

	assert.Equal(t, 2, fired)
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, 1, sel.State().Count)
}

func TestPanickingCallbackDoesNotWedgeSelectors(t *testing.T) {
	sel := NewSelectors[testState]()
	Select(sel, func(s testState) int { return s.Count }, func(s testState) {
		if s.Count == 1 {
			panic("render failed")
		}
	})

	assert.Panics(t, func() { sel.Evaluate(testState{Count: 1}) })
	assert.Equal(t, 1, sel.Evaluate(testState{Count: 2}))
}

func TestStateIsSafeToReadDuringEvaluation(t *testing.T) {
	sel := NewSelectors[testState]()
	Select(sel, func(s testState) int { return s.Count }, func(testState) {})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			sel.Evaluate(testState{Count: i})
		}
	}()
	for i := 0; i < 100; i++ {
		_ = sel.State()
	}
	<-done

	assert.Equal(t, 99, sel.State().Count)
}
