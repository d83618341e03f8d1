package presenter

import (
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/store"
	"github.com/google/uuid"
)

// ViewID identifies a view for its whole lifetime.
type ViewID = uuid.UUID

// View is a UI component bound to a store of state S.
type View[S any] interface {
	// ViewID returns a stable identifier.
	ViewID() ViewID
	// SetDispatch hands the view the store's dispatch function. Called on every attach.
	SetDispatch(dispatch store.Dispatcher)
	// SetSelectors hands the view the selectors its presenter registered.
	SetSelectors(sel *Selectors[S])
}

// Provider is a View that supplies its own presenter.
type Provider[S any] interface {
	View[S]
	Presenter() Presenter[S]
}

// Base implements the bookkeeping half of View and is meant to be embedded.
// Embedders provide Presenter themselves.
type Base[S any] struct {
	once      sync.Once
	id        ViewID
	mu        sync.RWMutex
	dispatch  store.Dispatcher
	selectors *Selectors[S]
}

// ViewID returns an identifier issued on first use. A nil Base has the nil ID.
func (b *Base[S]) ViewID() ViewID {
	if b == nil {
		return uuid.Nil
	}
	b.once.Do(func() {
		b.id = uuid.New()
	})
	return b.id
}

// SetDispatch stores dispatch for later use by Dispatch.
func (b *Base[S]) SetDispatch(dispatch store.Dispatcher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatch = dispatch
}

// SetSelectors stores the selectors built by the view's presenter.
func (b *Base[S]) SetSelectors(sel *Selectors[S]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectors = sel
}

// Selectors returns the selectors set by the presenter, or nil before the first attach.
func (b *Base[S]) Selectors() *Selectors[S] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selectors
}

// Dispatch sends action to the bound store. It fails with ErrUnknownView before
// the view has been attached.
func (b *Base[S]) Dispatch(action store.Action) error {
	b.mu.RLock()
	dispatch := b.dispatch
	b.mu.RUnlock()
	if dispatch == nil {
		return ErrUnknownView
	}
	return dispatch(action)
}
