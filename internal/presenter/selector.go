package presenter

import (
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/fingerprint"
)

// selection is one registered selector with its remembered value.
type selection[S any] interface {
	evaluate(state S) bool
}

type valueSelection[S, T any] struct {
	selector func(S) T
	equal    func(a, b T) bool
	then     func(S)

	seen bool
	last T
}

// evaluate fires then when the selected value changed, and only afterwards
// remembers the new value.
func (v *valueSelection[S, T]) evaluate(state S) bool {
	next := v.selector(state)
	if v.seen && v.equal(v.last, next) {
		return false
	}
	v.then(state)
	v.last = next
	v.seen = true
	return true
}

// Selectors holds the selector subscriptions registered by a presenter.
// Evaluation is serialized per instance. Callbacks run without the lock held,
// so they may dispatch or read the Selectors; an evaluation requested while one
// is in progress is queued and run, in order, before the outer call returns.
type Selectors[S any] struct {
	mu         sync.Mutex
	entries    []selection[S]
	anyChange  []func()
	state      S
	evaluating bool
	queued     []S
}

// NewSelectors returns an empty set of selectors.
func NewSelectors[S any]() *Selectors[S] {
	return &Selectors[S]{}
}

// Select registers a selector compared with ==. then runs on the first
// evaluation and whenever the selected value changes.
func Select[S any, T comparable](sel *Selectors[S], selector func(S) T, then func(S)) {
	SelectFunc(sel, selector, func(a, b T) bool { return a == b }, then)
}

// SelectFunc registers a selector compared with equal.
func SelectFunc[S, T any](sel *Selectors[S], selector func(S) T, equal func(a, b T) bool, then func(S)) {
	if selector == nil || equal == nil || then == nil {
		panic("presenter.SelectFunc: selector, equal and then are required")
	}
	sel.mu.Lock()
	defer sel.mu.Unlock()
	sel.entries = append(sel.entries, &valueSelection[S, T]{
		selector: selector,
		equal:    equal,
		then:     then,
	})
}

// SelectStructural registers a selector for values that are not comparable,
// such as slices and maps. Values are compared by structural fingerprint; a
// value that cannot be fingerprinted always counts as changed.
func SelectStructural[S, T any](sel *Selectors[S], selector func(S) T, then func(S)) {
	SelectFunc(sel, func(state S) structural {
		sum, err := fingerprint.Of(selector(state))
		return structural{sum: sum, ok: err == nil}
	}, func(a, b structural) bool {
		return a.ok && b.ok && a.sum == b.sum
	}, then)
}

type structural struct {
	sum uint64
	ok  bool
}

// WithAnyChange registers fn to run after every evaluation pass.
func (s *Selectors[S]) WithAnyChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anyChange = append(s.anyChange, fn)
}

// Evaluate runs every selector against state in registration order, then the
// any-change callbacks. It returns how many selector callbacks fired, including
// those of evaluations queued by the callbacks themselves. A call made while
// another evaluation is running queues state and returns 0.
func (s *Selectors[S]) Evaluate(state S) int {
	s.mu.Lock()
	if s.evaluating {
		s.queued = append(s.queued, state)
		s.mu.Unlock()
		return 0
	}
	s.evaluating = true

	fired := 0
	for {
		s.state = state
		entries := s.entries
		anyChange := s.anyChange
		s.mu.Unlock()

		fired += s.pass(state, entries, anyChange)

		s.mu.Lock()
		if len(s.queued) == 0 {
			s.evaluating = false
			s.mu.Unlock()
			return fired
		}
		state = s.queued[0]
		s.queued = s.queued[1:]
	}
}

func (s *Selectors[S]) pass(state S, entries []selection[S], anyChange []func()) (fired int) {
	defer func() {
		// Unwedge the instance before propagating a callback panic.
		if r := recover(); r != nil {
			s.mu.Lock()
			s.evaluating = false
			s.queued = nil
			s.mu.Unlock()
			panic(r)
		}
	}()
	for _, entry := range entries {
		if entry.evaluate(state) {
			fired++
		}
	}
	for _, fn := range anyChange {
		fn()
	}
	return fired
}

// Len returns the number of registered selectors.
func (s *Selectors[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// State returns the state of the evaluation in progress, or of the last one.
func (s *Selectors[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
