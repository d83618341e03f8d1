package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// Recorder returns a store middleware that appends every successfully reduced
// action of a registered type to j under session. Actions of unregistered
// types pass through unrecorded. Append failures are logged and never fail
// the dispatch.
//
// Actions are recorded in the order they entered the middleware, so an action
// dispatched by a listener while another is being reduced is stored after the
// action that caused it. Entries are written once the outermost dispatch
// returns.
//
// Place it after the presenter middleware so view control actions, which the
// presenter consumes, are not recorded.
func Recorder[S any](ctx context.Context, j *Journal, session string, logger logging.Logger) store.Middleware[S] {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("session", session)

	return func(api store.API[S]) func(next store.Dispatcher) store.Dispatcher {
		b := &batch{}
		return func(next store.Dispatcher) store.Dispatcher {
			return func(action store.Action) error {
				known := j.codec.Known(action)
				if !known {
					logger.Debug("action not journaled", "type", fmt.Sprintf("%T", action))
				}

				reserved := b.reserve(action, known)
				err := next(action)
				b.release(reserved, err == nil, func(actions []store.Action) {
					for _, a := range actions {
						if _, err := j.Append(ctx, session, a); err != nil {
							logger.Warn("journal append failed", "type", fmt.Sprintf("%T", a), "error", err)
						}
					}
				})
				return err
			}
		}
	}
}

type slot struct {
	action store.Action
	record bool
}

// batch holds the actions of one outermost dispatch, nested dispatches
// included, in the order they entered the middleware.
type batch struct {
	mu      sync.Mutex
	depth   int
	pending []*slot

	// writeMu keeps one batch's appends from interleaving with the next one's.
	writeMu sync.Mutex
}

func (b *batch) reserve(action store.Action, known bool) *slot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth++
	s := &slot{action: action, record: known}
	if known {
		b.pending = append(b.pending, s)
	}
	return s
}

// release marks s as done. When the outermost dispatch finishes, write gets
// the recordable actions of the batch in order.
func (b *batch) release(s *slot, ok bool, write func([]store.Action)) {
	b.mu.Lock()
	if !ok {
		s.record = false
	}
	b.depth--
	if b.depth > 0 {
		b.mu.Unlock()
		return
	}
	pending := b.pending
	b.pending = nil
	b.writeMu.Lock()
	b.mu.Unlock()
	defer b.writeMu.Unlock()

	actions := make([]store.Action, 0, len(pending))
	for _, p := range pending {
		if p.record {
			actions = append(actions, p.action)
		}
	}
	if len(actions) > 0 {
		write(actions)
	}
}
