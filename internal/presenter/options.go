package presenter

import (
	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/scheduler"
)

// Scheduler runs broadcast tasks one at a time in submission order.
type Scheduler interface {
	Schedule(task scheduler.Task)
}

// Drainer is a Scheduler the host runs explicitly.
type Drainer interface {
	Drain() int
}

// Option configures a Middleware.
type Option func(*options)

type options struct {
	scheduler Scheduler
	logger    logging.Logger
	metrics   MetricsCollector
	name      string
}

func defaultOptions() options {
	return options{
		scheduler: scheduler.NewLoop(),
		logger:    logging.Nop(),
		metrics:   nopMetrics{},
		name:      "presenter",
	}
}

// WithScheduler sets the context broadcasts run on. Defaults to a
// scheduler.Loop, whose queued broadcasts run when the host calls
// Middleware.Drain.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.NewRegistry(), "tea_presenter")
//	mw := presenter.New[State](presenter.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithName labels the middleware in logs.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
