package main

import (
	"context"

	"github.com/cristianoliveira/tea-presenter/cmd"
	"github.com/cristianoliveira/tea-presenter/internal/app"
	"github.com/cristianoliveira/tea-presenter/internal/journal"
	"github.com/cristianoliveira/tea-presenter/internal/tui"
	"github.com/cristianoliveira/tea-presenter/internal/version"
)

// defaultClient backs every command with the real implementations.
type defaultClient struct{}

func (defaultClient) Version() string {
	return version.String()
}

func (defaultClient) RunTUI(ctx context.Context, opts tui.Options) error {
	return tui.Run(ctx, opts, tui.NewDefaultProgramRunner())
}

func (defaultClient) OpenJournal(path string) (*journal.Journal, error) {
	return journal.Open(path, app.NewCodec())
}

var client defaultClient

func init() {
	cmd.RootCmd.AddCommand(
		NewRunCmd(client),
		NewJournalCmd(client),
		NewVersionCmd(client),
	)
}
