package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestHelpListsRegisteredCommandsInOrder(t *testing.T) {
	root := &cobra.Command{Use: "tea-presenter"}
	root.AddCommand(
		&cobra.Command{Use: "version", Short: "Show version information"},
		&cobra.Command{Use: "run", Short: "Run the demo"},
		&cobra.Command{Use: "other", Short: "Not listed"},
	)

	text := helpText(root)

	assert.Contains(t, text, "USAGE:")
	runAt := bytes.Index([]byte(text), []byte("run "))
	versionAt := bytes.Index([]byte(text), []byte("version "))
	assert.Less(t, runAt, versionAt)
	assert.NotContains(t, text, "Not listed")
}
