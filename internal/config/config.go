// Package config provides configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override configuration keys.
const EnvPrefix = "TEA_PRESENTER_"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755

	// FileExtTOML is the file extension for TOML configuration files (primary format).
	FileExtTOML = ".toml"
	// FileExtYAML and FileExtYML are accepted when the config path is given explicitly.
	FileExtYAML = ".yaml"
	FileExtYML  = ".yml"
)

var (
	config    map[string]string
	configMap map[string]string
	mu        sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	configMap = make(map[string]string)

	setDefaults()
	// Environment first so config_dir and the config path can be overridden.
	loadFromEnv()
	loadFromFile()
	// Re-apply environment variable overrides so env wins over the file.
	loadFromEnv()
	validate()
	computeDirs()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "tea-presenter"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "tea-presenter"))
	setDefault("scheduler", "tea")
	setDefault("queue_size", "256")
	setDefault("journal_enabled", "false")
	setDefault("journal_path", "")
	setDefault("metrics_enabled", "false")
	setDefault("metrics_namespace", "tea_presenter")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	configMap[key] = value
}

// configPath resolves the configuration file to read, or "" when there is none.
func configPath() string {
	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		return path
	}
	configDir, ok := config["config_dir"]
	if !ok || configDir == "" {
		return ""
	}
	path := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadFromFile reads configuration from a TOML or YAML file.
func loadFromFile() {
	path := configPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		clog.Debug("unable to read config file", "path", path, "err", err)
		return
	}

	var raw map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case FileExtTOML:
		err = toml.Unmarshal(data, &raw)
	case FileExtYAML, FileExtYML:
		err = yaml.Unmarshal(data, &raw)
	default:
		warnf("unsupported config file extension: %s", path)
		return
	}
	if err != nil {
		warnf("unable to parse config file %s: %v", path, err)
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			warnf("unsupported config value type for %s: %T", key, v)
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a decoded configuration value to its string representation.
// go-toml decodes integers as int64 and yaml.v3 as int.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := configMap[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			warnf("validation error for %s: %v, using default: %s", key, err, defaultValue)
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// computeDirs fills derived paths after config is loaded.
func computeDirs() {
	if config["journal_path"] == "" && config["state_dir"] != "" {
		config["journal_path"] = filepath.Join(config["state_dir"], "journal.db")
	}
}

func warnf(format string, args ...any) {
	clog.Warn(fmt.Sprintf(format, args...))
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// Set overrides a single key in memory, typically from a command line flag.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[key] = value
}

// reset clears loaded configuration. Used by tests.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	config = nil
	configMap = nil
}
