/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/tea-presenter/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "tea-presenter",
	Short:         "Terminal views that follow a shared store while they are on screen.",
	Long:          `Terminal views that follow a shared store while they are on screen.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Subcommands register themselves in init.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

func helpText(cmd *cobra.Command) string {
	commandOrder := []string{"run", "journal", "version"}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Name(), found.Short))
	}

	return fmt.Sprintf(`tea-presenter %s

Terminal views that follow a shared store while they are on screen.

USAGE:
    tea-presenter [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
}
