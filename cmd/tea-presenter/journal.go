package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cristianoliveira/tea-presenter/internal/app"
	"github.com/cristianoliveira/tea-presenter/internal/config"
	"github.com/cristianoliveira/tea-presenter/internal/journal"
	"github.com/cristianoliveira/tea-presenter/internal/store"
	"github.com/spf13/cobra"
)

type journalClient interface {
	OpenJournal(path string) (*journal.Journal, error)
}

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("4")).
	Padding(0, 1)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// NewJournalCmd creates the journal command group with explicit dependencies.
func NewJournalCmd(client journalClient) *cobra.Command {
	if client == nil {
		panic("NewJournalCmd: client dependency cannot be nil")
	}

	var path string
	open := func(cmd *cobra.Command) (*journal.Journal, error) {
		if !cmd.Flags().Changed("path") {
			path = config.Get("journal_path", "")
		}
		return client.OpenJournal(path)
	}

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect and replay recorded sessions",
		Args:  cobra.NoArgs,
	}
	journalCmd.PersistentFlags().StringVar(&path, "path", "", "journal database path (default: journal_path setting)")

	journalCmd.AddCommand(newJournalListCmd(open), newJournalReplayCmd(open))
	return journalCmd
}

func newJournalListCmd(open func(*cobra.Command) (*journal.Journal, error)) *cobra.Command {
	var (
		session string
		limit   int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, or the actions of one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			j, err := open(cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			if session == "" {
				sessions, err := j.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				return printSessions(cmd.OutOrStdout(), sessions)
			}

			entries, err := j.List(cmd.Context(), session, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no actions recorded for session %s", session)
			}
			return printEntries(cmd.OutOrStdout(), j, entries)
		},
	}

	listCmd.Flags().StringVar(&session, "session", "", "list the actions of this session")
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of actions to list (0 means all)")
	return listCmd
}

func newJournalReplayCmd(open func(*cobra.Command) (*journal.Journal, error)) *cobra.Command {
	var session string

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a session into a fresh store and print the resulting state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				return journal.ErrSessionRequired
			}
			j, err := open(cmd)
			if err != nil {
				return err
			}
			defer j.Close()

			st := store.New(app.Reduce, app.Initial())
			n, err := j.Replay(cmd.Context(), session, st.Dispatch)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("no actions recorded for session %s", session)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(session, n, st.State()))
			return nil
		},
	}

	replayCmd.Flags().StringVar(&session, "session", "", "session ID to replay (required)")
	return replayCmd
}

func printSessions(w io.Writer, sessions []journal.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "no sessions recorded")
		return err
	}
	t := newTable("SESSION", "ACTIONS", "FIRST", "LAST")
	for _, s := range sessions {
		t.Row(s.ID, strconv.Itoa(s.Actions), s.First.Local().Format(time.DateTime), s.Last.Local().Format(time.DateTime))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func printEntries(w io.Writer, j *journal.Journal, entries []journal.Entry) error {
	t := newTable("SEQ", "RECORDED", "TYPE", "ACTION")
	for _, entry := range entries {
		action, err := j.Decode(entry)
		if err != nil {
			return err
		}
		t.Row(strconv.FormatInt(entry.Seq, 10), entry.RecordedAt.Local().Format(time.DateTime), entry.Type, fmt.Sprintf("%+v", action))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderSummary(session string, replayed int, s app.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session:  %s\n", session)
	fmt.Fprintf(&b, "replayed: %d actions\n", replayed)
	fmt.Fprintf(&b, "count:    %d\n", s.Count)
	fmt.Fprintf(&b, "todos:    %d (%d left, filter %s)", len(s.Todos), app.Remaining(s), s.Filter)
	for _, todo := range s.Todos {
		mark := "[ ]"
		if todo.Done {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "\n  %s #%d %s", mark, todo.ID, todo.Title)
	}
	return summaryStyle.Render(b.String())
}
