package presenter

import (
	"fmt"
	"sync"
)

// attachOutcome reports what an attach did to the registry.
type attachOutcome int

const (
	attachNoop attachOutcome = iota
	attachNew
	attachResumed
)

type registryEntry[S any] struct {
	view       View[S]
	lifecycle  Lifecycle
	subscriber Subscriber
}

// registry tracks views in registration order. Subscribers are always invoked
// outside the lock so they may dispatch.
type registry[S any] struct {
	mu      sync.Mutex
	order   []ViewID
	entries map[ViewID]*registryEntry[S]
}

func newRegistry[S any]() *registry[S] {
	return &registry[S]{entries: make(map[ViewID]*registryEntry[S])}
}

// attach registers view or resumes it. build is only called for views that
// are not registered yet; a build error leaves the registry untouched. For new
// and resumed views it returns the subscriber the caller must invoke once to
// synchronize the view.
func (r *registry[S]) attach(view View[S], build func() (Subscriber, error)) (attachOutcome, Subscriber, error) {
	id := view.ViewID()

	r.mu.Lock()
	if entry, ok := r.entries[id]; ok {
		if entry.lifecycle == Attached {
			r.mu.Unlock()
			return attachNoop, nil, nil
		}
		entry.lifecycle = Attached
		subscriber := entry.subscriber
		r.mu.Unlock()
		return attachResumed, subscriber, nil
	}
	r.mu.Unlock()

	subscriber, err := build()
	if err != nil {
		return attachNoop, nil, err
	}
	if subscriber == nil {
		return attachNoop, nil, fmt.Errorf("%w: presenter returned nil subscriber", ErrPresenterNotProvided)
	}

	r.mu.Lock()
	if _, ok := r.entries[id]; ok {
		// Registered concurrently while building.
		r.mu.Unlock()
		return attachNoop, nil, nil
	}
	r.entries[id] = &registryEntry[S]{view: view, lifecycle: Attached, subscriber: subscriber}
	r.order = append(r.order, id)
	r.mu.Unlock()

	return attachNew, subscriber, nil
}

// detach pauses a registered view. Detaching a detached view is a no-op and
// reports false.
func (r *registry[S]) detach(id ViewID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return false, ErrUnknownView
	}
	if entry.lifecycle == Detached {
		return false, nil
	}
	entry.lifecycle = Detached
	return true, nil
}

// clear removes id in any state and reports whether it was present.
func (r *registry[S]) clear(id ViewID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *registry[S]) isEmpty() bool {
	return r.len() == 0
}

func (r *registry[S]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// lifecycle returns the state of id and whether it is registered.
func (r *registry[S]) lifecycle(id ViewID) (Lifecycle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return 0, false
	}
	return entry.lifecycle, true
}

// attachedIDs returns the attached views in registration order.
func (r *registry[S]) attachedIDs() []ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ViewID, 0, len(r.order))
	for _, id := range r.order {
		if r.entries[id].lifecycle == Attached {
			ids = append(ids, id)
		}
	}
	return ids
}

// subscriberIfAttached returns the subscriber of id when it is still attached.
func (r *registry[S]) subscriberIfAttached(id ViewID) (Subscriber, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.lifecycle != Attached {
		return nil, false
	}
	return entry.subscriber, true
}

// counts returns the number of attached and detached views.
func (r *registry[S]) counts() (attached, detached int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		switch entry.lifecycle {
		case Attached:
			attached++
		case Detached:
			detached++
		}
	}
	return attached, detached
}

// broadcast invokes every attached subscriber in registration order and
// returns how many ran. Each view's lifecycle is re-checked right before its
// subscriber runs, so a view detached by an earlier subscriber is skipped.
func (r *registry[S]) broadcast() int {
	invoked := 0
	for _, id := range r.attachedIDs() {
		subscriber, ok := r.subscriberIfAttached(id)
		if !ok {
			continue
		}
		subscriber()
		invoked++
	}
	return invoked
}
