package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupConfigEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Cleanup(reset)
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, "tea", Get("scheduler", ""))
	require.Equal(t, 256, GetInt("queue_size", 0))
	require.False(t, GetBool("journal_enabled", true))
}

func TestDefaultsDeriveJournalPathFromStateDir(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	stateDir := filepath.Join(tmp, "state", "tea-presenter")
	require.Equal(t, stateDir, Get("state_dir", ""))
	require.Equal(t, filepath.Join(stateDir, "journal.db"), Get("journal_path", ""))
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := setupConfigEnv(t)

	configDir := filepath.Join(tmp, "config", "tea-presenter")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	configFile := filepath.Join(configDir, "config.toml")
	content := `
scheduler = "queue"
queue_size = 64
journal_enabled = true
logging_level = "debug"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	t.Setenv("TEA_PRESENTER_QUEUE_SIZE", "32")
	Load()

	require.Equal(t, "32", Get("queue_size", ""), "environment should override config file")
	require.Equal(t, "queue", Get("scheduler", ""), "config file value should be used when not overridden")
	require.True(t, GetBool("journal_enabled", false))
	require.Equal(t, "debug", Get("logging_level", ""))
}

func TestYAMLConfigFile(t *testing.T) {
	tmp := setupConfigEnv(t)

	configFile := filepath.Join(tmp, "presenter.yaml")
	content := "scheduler: trampoline\nmetrics_enabled: yes\nmetrics_namespace: demo\nqueue_size: 8\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("TEA_PRESENTER_CONFIG_PATH", configFile)

	Load()

	require.Equal(t, "trampoline", Get("scheduler", ""))
	require.True(t, GetBool("metrics_enabled", false))
	require.Equal(t, "demo", Get("metrics_namespace", ""))
	require.Equal(t, 8, GetInt("queue_size", 0))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigEnv(t)

	t.Setenv("TEA_PRESENTER_SCHEDULER", "threads")
	t.Setenv("TEA_PRESENTER_QUEUE_SIZE", "-4")
	t.Setenv("TEA_PRESENTER_DEBUG", "maybe")
	Load()

	require.Equal(t, "tea", Get("scheduler", ""))
	require.Equal(t, "256", Get("queue_size", ""))
	require.Equal(t, "false", Get("debug", ""))
}

func TestValidatorsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		value     string
		want      string
	}{
		{name: "bool yes", validator: BoolValidator(), value: "YES", want: "true"},
		{name: "bool off", validator: BoolValidator(), value: "off", want: "false"},
		{name: "bool empty uses default", validator: BoolValidator(), value: "", want: "dflt"},
		{name: "enum lowercases", validator: EnumValidator(map[string]bool{"queue": true}), value: "QUEUE", want: "queue"},
		{name: "positive int", validator: PositiveIntValidator(), value: "12", want: "12"},
		{name: "zero is rejected", validator: PositiveIntValidator(), value: "0", want: "dflt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator("key", tt.value, "dflt")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("scheduler", BoolValidator())
	})
}

func TestSetOverridesValue(t *testing.T) {
	setupConfigEnv(t)
	Load()

	Set("scheduler", "queue")
	require.Equal(t, "queue", Get("scheduler", ""))
}
