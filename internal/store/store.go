// Package store provides a small generic unidirectional-data-flow state container.
//
// A Store holds one state value of type S. Actions are dispatched through an optional
// middleware chain and finally reduced into a new state, after which every subscribed
// listener is called with no arguments.
package store

import (
	"sync"
)

// Action is any value dispatched to a store.
type Action = any

// Dispatcher sends an action down a dispatch chain.
type Dispatcher func(action Action) error

// Listener is called after every completed state transition.
type Listener func()

// Unsubscribe cancels a listener registration. Calling it more than once is safe.
type Unsubscribe func()

// Reducer computes the next state from the current state and an action.
type Reducer[S any] func(state S, action Action) S

// API is the surface a store exposes to middleware and other collaborators.
type API[S any] interface {
	// Dispatch sends an action through the full middleware chain.
	Dispatch(action Action) error
	// State returns the current state.
	State() S
	// Subscribe registers a listener called after each state transition.
	Subscribe(listener Listener) Unsubscribe
}

// Middleware wraps the dispatch chain. It receives the store API once when the
// store is created and returns a function that decorates the next dispatcher.
type Middleware[S any] func(api API[S]) func(next Dispatcher) Dispatcher

type listenerEntry struct {
	id       uint64
	listener Listener
}

// Store is a generic state container.
type Store[S any] struct {
	mu        sync.RWMutex
	state     S
	reducer   Reducer[S]
	listeners []listenerEntry
	nextID    uint64
	dispatch  Dispatcher

	// reduceMu serializes reductions. Reducers must not dispatch.
	reduceMu sync.Mutex
}

var _ API[struct{}] = (*Store[struct{}])(nil)

// New creates a store with the given reducer and initial state. Middleware is applied
// so that the first element is the outermost link of the chain.
func New[S any](reducer Reducer[S], initial S, middleware ...Middleware[S]) *Store[S] {
	if reducer == nil {
		panic("store.New: reducer cannot be nil")
	}

	s := &Store[S]{
		state:   initial,
		reducer: reducer,
	}

	var dispatch Dispatcher = s.reduce
	for i := len(middleware) - 1; i >= 0; i-- {
		dispatch = middleware[i](s)(dispatch)
	}
	s.dispatch = dispatch

	return s
}

// Dispatch sends an action through the middleware chain.
func (s *Store[S]) Dispatch(action Action) error {
	return s.dispatch(action)
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a listener. Listeners are called in registration order.
func (s *Store[S]) Subscribe(listener Listener) Unsubscribe {
	if listener == nil {
		panic("store.Subscribe: listener cannot be nil")
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, entry := range s.listeners {
				if entry.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

// ListenerCount returns the number of registered listeners.
func (s *Store[S]) ListenerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// reduce is the innermost dispatcher of the chain. Listeners run after the
// reduction lock is released so they may dispatch.
func (s *Store[S]) reduce(action Action) error {
	listeners := s.apply(action)
	for _, entry := range listeners {
		entry.listener()
	}
	return nil
}

func (s *Store[S]) apply(action Action) []listenerEntry {
	s.reduceMu.Lock()
	defer s.reduceMu.Unlock()

	next := s.reducer(s.State(), action)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}
