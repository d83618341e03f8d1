package main

import (
	"os"

	"github.com/cristianoliveira/tea-presenter/cmd"
	"github.com/cristianoliveira/tea-presenter/internal/colors"
	"github.com/cristianoliveira/tea-presenter/internal/config"
	"github.com/cristianoliveira/tea-presenter/internal/logging"
	"github.com/cristianoliveira/tea-presenter/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run loads configuration and logging, executes the command line and returns
// the process exit code.
func run(args []string, execute func() error) int {
	config.Load()
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("file logging disabled:", err.Error())
	}
	defer func() {
		_ = logging.ShutdownGlobal()
	}()

	logger := logging.GetGlobal()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetLogger(logger)
	defer colors.SetLogger(nil)

	logger.Info("startup", version.Details()...)
	cmd.RootCmd.SetArgs(args)
	if err := execute(); err != nil {
		colors.Error(err.Error())
		return 1
	}
	logger.Info("completed")
	return 0
}
