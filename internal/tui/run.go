package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/tea-presenter/internal/app"
	"github.com/cristianoliveira/tea-presenter/internal/journal"
	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/presenter"
	"github.com/cristianoliveira/tea-presenter/internal/scheduler"
	"github.com/cristianoliveira/tea-presenter/internal/store"
)

// Scheduler names accepted by Options.Scheduler.
const (
	SchedulerTrampoline = "trampoline"
	SchedulerQueue      = "queue"
	SchedulerTea        = "tea"
)

const queueRefresh = 100 * time.Millisecond

// Options configures a TUI session.
type Options struct {
	Scheduler string
	QueueSize int
	Logger    logging.Logger
	Metrics   presenter.MetricsCollector
	// Journal, when set, records every app action under Session.
	Journal *journal.Journal
	Session string
}

// Run wires a store, the presenter middleware and the host model, then runs
// the program until the user quits.
func Run(ctx context.Context, opts Options, runner ProgramRunner) error {
	if runner == nil {
		runner = NewDefaultProgramRunner()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	sender := NewProgramSender()
	sched, refresh, stop, err := newScheduler(ctx, opts, sender, logger)
	if err != nil {
		return err
	}
	defer stop()

	mw := presenter.New[app.State](
		presenter.WithScheduler(sched),
		presenter.WithLogger(logger),
		presenter.WithMetrics(opts.Metrics),
		presenter.WithName("tui"),
	)
	middleware := []store.Middleware[app.State]{mw.Bind}
	if opts.Journal != nil {
		if opts.Session == "" {
			return journal.ErrSessionRequired
		}
		middleware = append(middleware, journal.Recorder[app.State](ctx, opts.Journal, opts.Session, logger))
		logger.Info("journaling session", "session", opts.Session)
	}
	st := store.New(app.Reduce, app.Initial(), middleware...)

	model, err := NewModel(st, mw, logger, refresh)
	if err != nil {
		return err
	}
	defer model.Close()

	if err := runner.Run(model, sender); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// newScheduler builds the scheduler named in opts. stop releases it after the
// program has exited.
func newScheduler(ctx context.Context, opts Options, sender *ProgramSender, logger logging.Logger) (presenter.Scheduler, time.Duration, func(), error) {
	switch opts.Scheduler {
	case SchedulerTrampoline:
		return scheduler.NewTrampoline(), 0, sender.Abandon, nil
	case SchedulerQueue:
		q := scheduler.NewQueue(opts.QueueSize, logger)
		q.Start(ctx)
		return q, queueRefresh, func() {
			q.Stop()
			sender.Abandon()
		}, nil
	case SchedulerTea, "":
		t := scheduler.NewTea(sender)
		return t, 0, func() {
			sender.Abandon()
			t.Close()
		}, nil
	default:
		return nil, 0, nil, fmt.Errorf("unknown scheduler %q", opts.Scheduler)
	}
}
