package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(Config{LogDir: dir, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log := l.Component("registry")
	log.Info().Str("id", "clock").Msg("loaded extension")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if rec["component"] != "registry" || rec["id"] != "clock" || rec["message"] != "loaded extension" {
		t.Errorf("unexpected record: %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Console: true, Out: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log := l.Zerolog()
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing:\n%s", out)
	}
}

func TestNew_ConsoleLevelOnlyAffectsConsole(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := New(Config{LogDir: dir, Level: "info", Console: true, Out: &buf, ConsoleLevel: "error"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log := l.Zerolog()
	log.Info().Msg("file only")
	log.Error().Msg("everywhere")
	l.Close()

	out := buf.String()
	if strings.Contains(out, "file only") {
		t.Errorf("info message should not reach console:\n%s", out)
	}
	if !strings.Contains(out, "everywhere") {
		t.Errorf("error message missing from console:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "file only") || !strings.Contains(string(data), "everywhere") {
		t.Errorf("file should have both messages:\n%s", data)
	}
}

func TestNew_AppendsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first", "second"} {
		l, err := New(Config{LogDir: dir})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		z := l.Zerolog()
		z.Info().Msg(msg)
		l.Close()
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("expected 2 lines, got %d:\n%s", lines, data)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	z := l.Component("x")
	z.Error().Msg("discarded")
	if l.Path() != "" {
		t.Error("Nop logger should have no path")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
