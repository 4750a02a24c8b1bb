package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ErrNotMapping is returned when an entry file does not hold a mapping at its
// top level.
var ErrNotMapping = errors.New("entry file is not a mapping")

// FindEntryFile returns the first entry file that exists in dir.
func FindEntryFile(dir string) (string, bool) {
	for _, name := range EntryFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// ParseDocument decodes entry file bytes into a generic document. JSON is
// accepted since it is a subset of YAML.
func ParseDocument(data []byte) (any, error) {
	raw, err := decodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	raw = normalizeYAML(raw)
	if _, ok := raw.(map[string]any); !ok {
		return nil, ErrNotMapping
	}
	return raw, nil
}

// ReadDocument reads and decodes the entry file at path.
func ReadDocument(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a manifest file without validating it. Missing fields are left
// empty.
func Parse(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
