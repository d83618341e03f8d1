// Package metrics provides MetricsCollector implementations for the presenter
// middleware.
package metrics

import (
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/presenter"
)

// Nop discards every metric.
type Nop struct{}

var _ presenter.MetricsCollector = (*Nop)(nil)

// NewNop creates a no-op collector.
func NewNop() *Nop {
	return &Nop{}
}

// RecordTransition discards the transition.
func (n *Nop) RecordTransition(_ string) {}

// RecordBroadcast discards the broadcast.
func (n *Nop) RecordBroadcast(_ int, _ time.Duration) {}

// SetViews discards the view counts.
func (n *Nop) SetViews(_, _ int) {}

// SetStoreSubscribed discards the subscription state.
func (n *Nop) SetStoreSubscribed(_ bool) {}
