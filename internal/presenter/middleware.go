package presenter

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// Middleware binds a store to the views attached through it. It consumes the
// Control actions and forwards everything else unchanged.
type Middleware[S any] struct {
	opts   options
	logger logging.Logger

	registry     *registry[S]
	subscription storeSubscription[S]

	bindMu sync.Mutex
	api    store.API[S]

	// syncing counts attach-time synchronizations in progress; broadcasts
	// requested meanwhile are held in deferred.
	syncMu   sync.Mutex
	syncing  int
	deferred int
}

// Stats is a snapshot of the middleware's bookkeeping.
type Stats struct {
	Registered int
	Attached   int
	Detached   int
	Subscribed bool
}

// New creates a presenter middleware. Pass its Bind method to store.New.
//
//	mw := presenter.New[State]()
//	st := store.New(reducer, State{}, mw.Bind)
func New[S any](opts ...Option) *Middleware[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Middleware[S]{
		opts:     o,
		logger:   o.logger.With("middleware", o.name),
		registry: newRegistry[S](),
	}
}

// Bind implements store.Middleware. A Middleware can be bound to one store only.
func (m *Middleware[S]) Bind(api store.API[S]) func(next store.Dispatcher) store.Dispatcher {
	m.bindMu.Lock()
	if m.api != nil {
		m.bindMu.Unlock()
		panic("presenter.Middleware: already bound to a store")
	}
	m.api = api
	m.bindMu.Unlock()

	return func(next store.Dispatcher) store.Dispatcher {
		return func(action store.Action) error {
			if control, ok := action.(Control[S]); ok {
				return m.handle(control)
			}
			return next(action)
		}
	}
}

func (m *Middleware[S]) handle(control Control[S]) error {
	switch a := control.(type) {
	case AttachView[S]:
		return m.attach(a.View)
	case DetachView[S]:
		return m.detach(a.View)
	case ClearView[S]:
		return m.clear(a.View)
	}
	return nil
}

// Stats returns the current registry counts and subscription state.
func (m *Middleware[S]) Stats() Stats {
	attached, detached := m.registry.counts()
	return Stats{
		Registered: attached + detached,
		Attached:   attached,
		Detached:   detached,
		Subscribed: m.subscription.active(),
	}
}

// Lifecycle returns the lifecycle of the view with id and whether it is registered.
func (m *Middleware[S]) Lifecycle(id ViewID) (Lifecycle, bool) {
	return m.registry.lifecycle(id)
}

func (m *Middleware[S]) attach(view View[S]) error {
	id, err := identify(view)
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}

	// Resolve the presenter of a new view before any side effect so a view
	// without one leaves no trace.
	var presenter Presenter[S]
	if _, registered := m.registry.lifecycle(id); !registered {
		p, err := resolvePresenter(view)
		if err != nil {
			m.logger.Warn("attach rejected", "view", id.String(), "error", err)
			return fmt.Errorf("attach %s: %w", id, err)
		}
		presenter = p
	}

	view.SetDispatch(m.api.Dispatch)
	if m.subscription.ensure(m.api, m.onStateChange) {
		m.opts.metrics.SetStoreSubscribed(true)
		m.logger.Debug("store subscription taken")
	}

	outcome, subscriber, err := m.registry.attach(view, func() (Subscriber, error) {
		if presenter == nil {
			p, err := resolvePresenter(view)
			if err != nil {
				return nil, err
			}
			presenter = p
		}
		return presenter(view, m.api)
	})
	if err != nil {
		m.releaseIfUnused()
		m.logger.Warn("attach failed", "view", id.String(), "error", err)
		return fmt.Errorf("attach %s: %w", id, err)
	}
	if subscriber != nil {
		m.synchronize(subscriber)
	}

	switch outcome {
	case attachNew:
		m.opts.metrics.RecordTransition(TransitionAttached)
		m.logger.Debug("view attached", "view", id.String(), "type", fmt.Sprintf("%T", view))
	case attachResumed:
		m.opts.metrics.RecordTransition(TransitionResumed)
		m.logger.Debug("view resumed", "view", id.String())
	default:
		m.logger.Debug("view already attached", "view", id.String())
	}
	m.reportViews()
	return nil
}

func (m *Middleware[S]) detach(view View[S]) error {
	id, err := identify(view)
	if err != nil {
		return fmt.Errorf("detach: %w", err)
	}

	changed, err := m.registry.detach(id)
	if err != nil {
		m.logger.Warn("detach of unregistered view", "view", id.String())
		return fmt.Errorf("detach %s: %w", id, err)
	}
	if changed {
		m.opts.metrics.RecordTransition(TransitionDetached)
		m.logger.Debug("view detached", "view", id.String())
		m.reportViews()
	}
	return nil
}

func (m *Middleware[S]) clear(view View[S]) error {
	id, err := identify(view)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}

	if m.registry.clear(id) {
		m.opts.metrics.RecordTransition(TransitionCleared)
		m.logger.Debug("view cleared", "view", id.String())
	} else {
		m.logger.Debug("clear of unregistered view ignored", "view", id.String())
	}
	m.releaseIfUnused()
	m.reportViews()
	return nil
}

func (m *Middleware[S]) releaseIfUnused() {
	if m.subscription.releaseIfUnused(m.registry.isEmpty()) {
		m.opts.metrics.SetStoreSubscribed(false)
		m.logger.Debug("store subscription released")
	}
}

func (m *Middleware[S]) reportViews() {
	attached, detached := m.registry.counts()
	m.opts.metrics.SetViews(attached, detached)
}

// synchronize runs the subscriber of a view that was just attached or resumed.
// Broadcasts requested while it runs are scheduled once the outermost
// synchronization returns, so a subscriber that dispatches is never re-entered.
func (m *Middleware[S]) synchronize(subscriber Subscriber) {
	m.syncMu.Lock()
	m.syncing++
	m.syncMu.Unlock()

	defer func() {
		m.syncMu.Lock()
		m.syncing--
		held := 0
		if m.syncing == 0 {
			held, m.deferred = m.deferred, 0
		}
		m.syncMu.Unlock()

		for i := 0; i < held; i++ {
			m.opts.scheduler.Schedule(m.broadcast)
		}
	}()

	subscriber()
}

// onStateChange is the store listener. It only schedules; the broadcast reads
// whatever state is current when it runs.
func (m *Middleware[S]) onStateChange() {
	m.syncMu.Lock()
	if m.syncing > 0 {
		m.deferred++
		m.syncMu.Unlock()
		return
	}
	m.syncMu.Unlock()

	m.opts.scheduler.Schedule(m.broadcast)
}

// Drain runs the broadcasts queued on the default scheduler and returns how
// many tasks ran. It returns 0 when the middleware was given a scheduler that
// is not a Drainer.
func (m *Middleware[S]) Drain() int {
	if d, ok := m.opts.scheduler.(Drainer); ok {
		return d.Drain()
	}
	return 0
}

func (m *Middleware[S]) broadcast() {
	start := time.Now()
	invoked := m.registry.broadcast()
	m.opts.metrics.RecordBroadcast(invoked, time.Since(start))
}

// identify returns the ID of view. Nil views are rejected with ErrNilView,
// including typed nil pointers whose ViewID dereferences the receiver.
func identify[S any](view View[S]) (id ViewID, err error) {
	if view == nil {
		return ViewID{}, ErrNilView
	}
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok || !strings.Contains(re.Error(), "nil pointer dereference") {
				panic(r)
			}
			err = fmt.Errorf("%w: %T", ErrNilView, view)
		}
	}()
	id = view.ViewID()
	if id == (ViewID{}) {
		return id, fmt.Errorf("%w: %T has no ID", ErrNilView, view)
	}
	return id, nil
}

func resolvePresenter[S any](view View[S]) (Presenter[S], error) {
	provider, ok := view.(Provider[S])
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrPresenterNotProvided, view)
	}
	p := provider.Presenter()
	if p == nil {
		return nil, fmt.Errorf("%w: %T returned nil", ErrPresenterNotProvided, view)
	}
	return p, nil
}
