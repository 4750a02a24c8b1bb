package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParse_Fields(t *testing.T) {
	tests := []struct {
		file      string
		name      string
		version   string
		component string
	}{
		{"valid-clock.yaml", "Digital Clock", "1.0.0", "ClockWidget"},
		{"valid-lights.json", "Cabin Lights", "2.3.1", "LightsPanel"},
		{"valid-extra-fields.yaml", "GPIO Monitor", "0.4.0", "GpioMonitor"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			m, err := Parse(testPath(tt.file))
			if err != nil {
				t.Fatalf("Parse(%s) error: %v", tt.file, err)
			}
			if m.Name != tt.name {
				t.Errorf("Name = %q, want %q", m.Name, tt.name)
			}
			if m.Version != tt.version {
				t.Errorf("Version = %q, want %q", m.Version, tt.version)
			}
			if m.Component != tt.component {
				t.Errorf("Component = %q, want %q", m.Component, tt.component)
			}
		})
	}
}

func TestParse_FileNotFound(t *testing.T) {
	_, err := Parse(testPath("nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestReadDocument_NotMapping(t *testing.T) {
	_, err := ReadDocument(testPath("invalid-list.yaml"))
	if !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}

func TestParseDocument_Empty(t *testing.T) {
	if _, err := ParseDocument(nil); !errors.Is(err, ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping for empty input, got %v", err)
	}
}

func TestReadDocument_KeepsScalarTypes(t *testing.T) {
	doc, err := ReadDocument(testPath("invalid-numeric-version.yaml"))
	if err != nil {
		t.Fatalf("ReadDocument error: %v", err)
	}
	m := doc.(map[string]any)
	if _, ok := m["version"].(string); ok {
		t.Error("version 1.0 must not be decoded as a string")
	}
}

func TestFindEntryFile_Order(t *testing.T) {
	dir := t.TempDir()

	if _, ok := FindEntryFile(dir); ok {
		t.Fatal("expected no entry file in empty dir")
	}

	for _, name := range []string{EntryJSON, EntryYML, EntryYAML} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		got, ok := FindEntryFile(dir)
		if !ok {
			t.Fatalf("expected entry file after writing %s", name)
		}
		if filepath.Base(got) != name {
			t.Errorf("FindEntryFile = %s, want %s", filepath.Base(got), name)
		}
	}
}

func TestFindEntryFile_IgnoresDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, EntryYAML), 0755); err != nil {
		t.Fatal(err)
	}
	if _, ok := FindEntryFile(dir); ok {
		t.Error("a directory named like an entry file must not match")
	}
}
