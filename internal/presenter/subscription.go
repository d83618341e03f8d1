package presenter

import (
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// storeSubscription holds at most one live store subscription.
type storeSubscription[S any] struct {
	mu          sync.Mutex
	unsubscribe store.Unsubscribe
}

// ensure subscribes listener to api unless a subscription is already live.
// It reports whether a new subscription was taken.
func (s *storeSubscription[S]) ensure(api store.API[S], listener store.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return false
	}
	s.unsubscribe = api.Subscribe(listener)
	return true
}

// releaseIfUnused cancels the live subscription when empty is true. It
// reports whether a subscription was released.
func (s *storeSubscription[S]) releaseIfUnused(empty bool) bool {
	if !empty {
		return false
	}
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe == nil {
		return false
	}
	unsubscribe()
	return true
}

func (s *storeSubscription[S]) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribe != nil
}
