package presenter

import "time"

// MetricsCollector records middleware activity. Implementations must be safe
// for concurrent use.
type MetricsCollector interface {
	// RecordTransition counts a lifecycle transition (TransitionAttached,
	// TransitionResumed, TransitionDetached or TransitionCleared).
	RecordTransition(transition string)

	// RecordBroadcast records one broadcast pass over attached views.
	RecordBroadcast(subscribers int, duration time.Duration)

	// SetViews reports the current number of attached and detached views.
	SetViews(attached, detached int)

	// SetStoreSubscribed reports whether the middleware holds a store subscription.
	SetStoreSubscribed(subscribed bool)
}

type nopMetrics struct{}

func (nopMetrics) RecordTransition(string)            {}
func (nopMetrics) RecordBroadcast(int, time.Duration) {}
func (nopMetrics) SetViews(int, int)                  {}
func (nopMetrics) SetStoreSubscribed(bool)            {}
