// Package logging provides structured logging to <userdata>/logs/app.log with
// optional human-readable console output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	LogDir  string    // directory for app.log; empty disables file output
	Level   string    // debug, info, warn, error (default info)
	Console bool      // also write to Out
	Out     io.Writer // console destination (default os.Stderr)

	// ConsoleLevel raises the threshold for console output only. Empty
	// means the console sees everything the file does.
	ConsoleLevel string
}

// Logger wraps zerolog with file output.
type Logger struct {
	zlog    zerolog.Logger
	file    *os.File
	logPath string
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a Logger. The log file is opened in append mode.
func New(cfg Config) (*Logger, error) {
	var writers []io.Writer
	l := &Logger{}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("creating log directory %s: %w", cfg.LogDir, err)
		}
		l.logPath = filepath.Join(cfg.LogDir, "app.log")
		file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", l.logPath, err)
		}
		l.file = file
		writers = append(writers, file)
	}

	if cfg.Console {
		out := cfg.Out
		if out == nil {
			out = os.Stderr
		}
		var console io.Writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		if cfg.ConsoleLevel != "" {
			console = &zerolog.FilteredLevelWriter{
				Writer: zerolog.LevelWriterAdapter{Writer: console},
				Level:  ParseLevel(cfg.ConsoleLevel),
			}
		}
		writers = append(writers, console)
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	l.zlog = zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return l, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a zerolog.Logger with the component field set.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Path returns the log file path, or "" when file output is disabled.
func (l *Logger) Path() string {
	return l.logPath
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
