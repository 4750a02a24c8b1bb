package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kiosk-labs/kiosk/internal/branding"
	"github.com/kiosk-labs/kiosk/internal/userdata"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known setting keys.
const (
	KeyBuiltinDir    = "builtin_dir"
	KeyQuestionsFile = "questions_file"
	KeyLogLevel      = "log.level"
	KeyLogConsole    = "log.console"
)

var defaults = map[string]any{
	KeyBuiltinDir:    "",
	KeyQuestionsFile: "",
	KeyLogLevel:      "info",
	KeyLogConsole:    false,
}

// Settings is the typed view of the settings file after env overrides.
type Settings struct {
	BuiltinDir    string
	QuestionsFile string
	LogLevel      string
	LogConsole    bool
}

// Dir returns the directory holding the settings file (the userdata root).
func Dir() string {
	root, err := userdata.GetUserdataRoot()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return root
}

// FilePath returns the full path to the settings file (~/.kiosk/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the settings directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the settings file and environment.
// A missing file is not an error; a malformed one is.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Current returns the loaded settings.
func Current() Settings {
	return Settings{
		BuiltinDir:    viper.GetString(KeyBuiltinDir),
		QuestionsFile: viper.GetString(KeyQuestionsFile),
		LogLevel:      viper.GetString(KeyLogLevel),
		LogConsole:    viper.GetBool(KeyLogConsole),
	}
}

// Keys returns the known setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnown reports whether key is a recognized setting.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the settings file.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	if _, isBool := defaults[key].(bool); isBool {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			viper.Set(key, true)
		case "false", "0", "no", "off":
			viper.Set(key, false)
		default:
			return fmt.Errorf("config key %s expects a boolean, got %q", key, value)
		}
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Reset clears all in-memory settings. Used between test cases.
func Reset() {
	viper.Reset()
}
