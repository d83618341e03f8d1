package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/tea-presenter/internal/colors"
	"github.com/cristianoliveira/tea-presenter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	config.Load()
	return tmp
}

func captureColors(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &out, &errOut
}

func TestRunReturnsExitCodes(t *testing.T) {
	setupEnv(t)
	_, errOut := captureColors(t)

	assert.Equal(t, 0, run([]string{"version"}, func() error { return nil }))
	assert.Empty(t, errOut.String())

	assert.Equal(t, 1, run([]string{"bogus"}, func() error { return errors.New("unknown command \"bogus\"") }))
	assert.Contains(t, errOut.String(), `unknown command "bogus"`)
}

func TestRunLoadsConfiguration(t *testing.T) {
	setupEnv(t)
	captureColors(t)
	t.Setenv("TEA_PRESENTER_SCHEDULER", "queue")

	var seen string
	code := run(nil, func() error {
		seen = config.Get("scheduler", "")
		return nil
	})

	require.Equal(t, 0, code)
	assert.Equal(t, "queue", seen)
}

func reloadConfig(t *testing.T) {
	t.Helper()
	config.Load()
}

func configuredStateDir(t *testing.T) string {
	t.Helper()
	dir := config.Get("state_dir", "")
	require.NotEmpty(t, dir)
	return dir
}
