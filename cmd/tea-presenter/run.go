package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/tea-presenter/internal/colors"
	"github.com/cristianoliveira/tea-presenter/internal/config"
	"github.com/cristianoliveira/tea-presenter/internal/journal"
	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/metrics"
	"github.com/cristianoliveira/tea-presenter/internal/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const metricsFileName = "metrics.prom"

type runClient interface {
	RunTUI(ctx context.Context, opts tui.Options) error
	OpenJournal(path string) (*journal.Journal, error)
}

// NewRunCmd creates the run command with explicit dependencies.
func NewRunCmd(client runClient) *cobra.Command {
	if client == nil {
		panic("NewRunCmd: client dependency cannot be nil")
	}

	var (
		schedulerName string
		journalOn     bool
		session       string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive demo",
		Long: `Run the interactive demo.

Each tab is a view bound to a shared store. Switching tabs detaches the hidden
view and attaches the visible one; a re-attached view is synchronized at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("scheduler") {
				schedulerName = config.Get("scheduler", tui.SchedulerTea)
			}
			if !cmd.Flags().Changed("journal") {
				journalOn = config.GetBool("journal_enabled", false)
			}
			switch schedulerName {
			case tui.SchedulerTrampoline, tui.SchedulerQueue, tui.SchedulerTea:
			default:
				return fmt.Errorf("invalid scheduler %q (expected trampoline, queue or tea)", schedulerName)
			}

			logger := logging.GetGlobal()
			opts := tui.Options{
				Scheduler: schedulerName,
				QueueSize: config.GetInt("queue_size", 256),
				Logger:    logger,
			}

			if journalOn {
				j, err := client.OpenJournal(config.Get("journal_path", ""))
				if err != nil {
					return err
				}
				defer j.Close()
				if session == "" {
					session = journal.NewSession()
				}
				opts.Journal = j
				opts.Session = session
			}

			var registry *prometheus.Registry
			if config.GetBool("metrics_enabled", false) {
				registry = prometheus.NewRegistry()
				opts.Metrics = metrics.NewPrometheus(registry, config.Get("metrics_namespace", metrics.DefaultNamespace))
			} else {
				opts.Metrics = metrics.NewNop()
			}

			if err := client.RunTUI(cmd.Context(), opts); err != nil {
				return err
			}

			if registry != nil {
				if err := writeMetrics(config.Get("state_dir", ""), registry); err != nil {
					logger.Warn("write metrics failed", "error", err)
				}
			}
			if opts.Journal != nil {
				colors.Success("session recorded:", opts.Session)
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&schedulerName, "scheduler", tui.SchedulerTea, "broadcast scheduler: trampoline, queue or tea")
	runCmd.Flags().BoolVar(&journalOn, "journal", false, "record dispatched actions to the journal")
	runCmd.Flags().StringVar(&session, "session", "", "journal session ID (default: a new one)")

	return runCmd
}

func writeMetrics(dir string, gatherer prometheus.Gatherer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	path := filepath.Join(dir, metricsFileName)
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	colors.Info("metrics written to " + path)
	return nil
}
