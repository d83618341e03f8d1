package metrics

import (
	"sync"
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/presenter"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is used when NewPrometheus is given an empty namespace.
const DefaultNamespace = "tea_presenter"

// Prometheus implements presenter.MetricsCollector with Prometheus metrics.
// Metrics are registered lazily on first use.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	transitions        *prometheus.CounterVec
	broadcasts         prometheus.Counter
	broadcastDuration  prometheus.Histogram
	broadcastReceivers prometheus.Histogram
	views              *prometheus.GaugeVec
	subscribed         prometheus.Gauge
}

var _ presenter.MetricsCollector = (*Prometheus)(nil)

// NewPrometheus creates a collector registering into reg, or
// prometheus.DefaultRegisterer when reg is nil.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "lifecycle_transitions_total",
			Help:      "View lifecycle transitions by kind (attached, resumed, detached, cleared).",
		}, []string{"transition"})

		p.broadcasts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "broadcasts_total",
			Help:      "Broadcast passes run after store changes.",
		})

		p.broadcastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "broadcast_duration_seconds",
			Help:      "Time spent synchronizing attached views in one broadcast.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		})

		p.broadcastReceivers = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "broadcast_subscribers",
			Help:      "Number of subscribers invoked per broadcast.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		})

		p.views = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "views",
			Help:      "Registered views by lifecycle.",
		}, []string{"lifecycle"})

		p.subscribed = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "presenter",
			Name:      "store_subscribed",
			Help:      "Whether the middleware holds a store subscription (1=yes, 0=no).",
		})

		p.reg.MustRegister(p.transitions)
		p.reg.MustRegister(p.broadcasts)
		p.reg.MustRegister(p.broadcastDuration)
		p.reg.MustRegister(p.broadcastReceivers)
		p.reg.MustRegister(p.views)
		p.reg.MustRegister(p.subscribed)
	})
}

// RecordTransition increments the counter for transition.
func (p *Prometheus) RecordTransition(transition string) {
	p.ensureRegistered()
	p.transitions.WithLabelValues(transition).Inc()
}

// RecordBroadcast counts a broadcast and observes its size and duration.
func (p *Prometheus) RecordBroadcast(subscribers int, duration time.Duration) {
	p.ensureRegistered()
	p.broadcasts.Inc()
	p.broadcastReceivers.Observe(float64(subscribers))
	p.broadcastDuration.Observe(duration.Seconds())
}

// SetViews sets the per-lifecycle view gauges.
func (p *Prometheus) SetViews(attached, detached int) {
	p.ensureRegistered()
	p.views.WithLabelValues(presenter.Attached.String()).Set(float64(attached))
	p.views.WithLabelValues(presenter.Detached.String()).Set(float64(detached))
}

// SetStoreSubscribed sets the subscription gauge.
func (p *Prometheus) SetStoreSubscribed(subscribed bool) {
	p.ensureRegistered()
	if subscribed {
		p.subscribed.Set(1)
		return
	}
	p.subscribed.Set(0)
}
