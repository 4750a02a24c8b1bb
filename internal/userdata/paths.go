package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kiosk-labs/kiosk/internal/branding"
)

// Directory and file name constants for the userdata layout.
const (
	ExtensionsDir       = "extensions"
	ConfigDir           = "config"
	LogsDir             = "logs"
	UserConfigFile      = "user-config.json"
	SetupQuestionsFile  = "setup-questions.json"
	LockFile            = "extensions.lock"
	LogFile             = "app.log"
	builtinRelativeRoot = "extensions"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// GetUserdataRoot returns the per-user data directory.
// It checks KIOSK_USERDATA first, then falls back to ~/.kiosk.
func GetUserdataRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("USERDATA")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetExtensionsRoot returns the user extensions root (read-write).
// It checks KIOSK_EXTENSIONS first, then falls back to <userdata>/extensions.
func GetExtensionsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v, nil
	}
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ExtensionsDir), nil
}

// GetBuiltinRoot returns the read-only built-in extensions root.
// It checks KIOSK_BUILTIN first, then looks for an extensions/ directory next
// to the executable and one level above it (bin/../extensions). When neither
// exists the executable-relative path is returned anyway; scanning it reports
// a missing root rather than failing.
func GetBuiltinRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("BUILTIN")); v != "" {
		return v, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolving executable path: %w", err)
	}
	exeDir := filepath.Dir(exe)

	candidates := []string{
		filepath.Join(exeDir, builtinRelativeRoot),
		filepath.Join(exeDir, "..", builtinRelativeRoot),
	}
	for _, c := range candidates {
		if info, statErr := os.Stat(c); statErr == nil && info.IsDir() {
			return filepath.Clean(c), nil
		}
	}
	return candidates[0], nil
}

// GetConfigDir returns the config/ directory within userdata.
func GetConfigDir() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ConfigDir), nil
}

// GetUserConfigPath returns the path of the saved setup answers.
func GetUserConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, UserConfigFile), nil
}

// GetQuestionsPath returns the setup questions file shipped with the
// application: <builtin>/../config/setup-questions.json, unless
// KIOSK_QUESTIONS points elsewhere.
func GetQuestionsPath() (string, error) {
	if v := os.Getenv(branding.EnvVar("QUESTIONS")); v != "" {
		return v, nil
	}
	builtin, err := GetBuiltinRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(builtin), ConfigDir, SetupQuestionsFile), nil
}

// GetLogsDir returns the logs/ directory within userdata.
func GetLogsDir() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LogsDir), nil
}

// GetLockPath returns the advisory lock file guarding extension mutations.
func GetLockPath() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LockFile), nil
}

// Layout is the fully resolved set of locations used by one process.
type Layout struct {
	Userdata   string
	Builtin    string
	Extensions string
	ConfigDir  string
	UserConfig string
	Questions  string
	LogsDir    string
	Lock       string
}

// Resolve returns the Layout for the current environment. builtinOverride and
// questionsOverride, when non-empty, take precedence over environment and
// executable-relative lookups (they come from the settings file).
func Resolve(builtinOverride, questionsOverride string) (*Layout, error) {
	var l Layout
	var err error

	if l.Userdata, err = GetUserdataRoot(); err != nil {
		return nil, err
	}
	if l.Extensions, err = GetExtensionsRoot(); err != nil {
		return nil, err
	}
	if l.ConfigDir, err = GetConfigDir(); err != nil {
		return nil, err
	}
	if l.UserConfig, err = GetUserConfigPath(); err != nil {
		return nil, err
	}
	if l.LogsDir, err = GetLogsDir(); err != nil {
		return nil, err
	}
	if l.Lock, err = GetLockPath(); err != nil {
		return nil, err
	}

	if builtinOverride != "" && os.Getenv(branding.EnvVar("BUILTIN")) == "" {
		l.Builtin = builtinOverride
	} else if l.Builtin, err = GetBuiltinRoot(); err != nil {
		return nil, err
	}

	switch {
	case os.Getenv(branding.EnvVar("QUESTIONS")) != "":
		l.Questions = os.Getenv(branding.EnvVar("QUESTIONS"))
	case questionsOverride != "":
		l.Questions = questionsOverride
	default:
		l.Questions = filepath.Join(filepath.Dir(l.Builtin), ConfigDir, SetupQuestionsFile)
	}

	return &l, nil
}
