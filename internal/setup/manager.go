package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Manager reads the question set and persists the user configuration.
type Manager struct {
	questionsPath  string
	userConfigPath string
	log            zerolog.Logger
}

// NewManager returns a Manager for the given files. questionsPath may be
// empty, in which case the embedded question set is always used.
func NewManager(questionsPath, userConfigPath string, log zerolog.Logger) *Manager {
	return &Manager{
		questionsPath:  questionsPath,
		userConfigPath: userConfigPath,
		log:            log.With().Str("component", "setup").Logger(),
	}
}

// UserConfigPath returns where answers are saved.
func (m *Manager) UserConfigPath() string {
	return m.userConfigPath
}

// Questions returns the questions in file order. When the question file does
// not exist the embedded defaults are returned.
func (m *Manager) Questions() ([]Question, error) {
	if m.questionsPath == "" {
		return DefaultQuestions(), nil
	}
	qs, err := ReadQuestions(m.questionsPath)
	if errors.Is(err, os.ErrNotExist) {
		m.log.Debug().Str("path", m.questionsPath).Msg("question file not found, using defaults")
		return DefaultQuestions(), nil
	}
	return qs, err
}

// Save writes cfg as indented JSON, replacing any previous answers.
func (m *Manager) Save(cfg UserConfig) error {
	if cfg == nil {
		return errors.New("user config is nil")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user config: %w", err)
	}

	dir := filepath.Dir(m.userConfigPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".user-config-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing user config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing user config: %w", err)
	}
	if err := os.Rename(tmpPath, m.userConfigPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving user config %s: %w", m.userConfigPath, err)
	}

	m.log.Info().Str("path", m.userConfigPath).Msg("user configuration saved")
	return nil
}

// Load returns the saved answers, or nil when setup has not been completed.
func (m *Manager) Load() (UserConfig, error) {
	data, err := os.ReadFile(m.userConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		m.log.Info().Str("path", m.userConfigPath).Msg("user configuration not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing user config %s: %w", m.userConfigPath, err)
	}
	return cfg, nil
}

// IsCompleted reports whether a user configuration file exists.
func (m *Manager) IsCompleted() bool {
	_, err := os.Stat(m.userConfigPath)
	return err == nil
}

// Reset deletes the saved answers. It returns false when there was nothing
// to delete.
func (m *Manager) Reset() (bool, error) {
	err := os.Remove(m.userConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing user config: %w", err)
	}
	m.log.Info().Msg("setup reset")
	return true, nil
}
