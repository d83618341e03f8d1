package presenter

import (
	"fmt"

	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// Subscriber pushes the current store state into one view.
type Subscriber func()

// Presenter binds a view to a store. It is called once per view, when the view
// is first attached, and returns the subscriber used for every later broadcast.
type Presenter[S any] func(view View[S], api store.API[S]) (Subscriber, error)

// Define builds a Presenter from a registration block. The block runs exactly
// once per view and only registers selectors; it must not render.
//
//	var counterPresenter = presenter.Define(func(v *CounterView, sel *presenter.Selectors[State]) {
//		presenter.Select(sel, func(s State) int { return s.Count }, func(s State) {
//			v.SetCount(s.Count)
//		})
//	})
func Define[S any, V View[S]](register func(view V, sel *Selectors[S])) Presenter[S] {
	if register == nil {
		panic("presenter.Define: register cannot be nil")
	}
	return func(view View[S], api store.API[S]) (Subscriber, error) {
		typed, ok := view.(V)
		if !ok {
			var want V
			return nil, fmt.Errorf("%w: got %T, want %T", ErrViewTypeMismatch, view, want)
		}

		sel := NewSelectors[S]()
		view.SetSelectors(sel)
		register(typed, sel)

		return func() {
			sel.Evaluate(api.State())
		}, nil
	}
}
