package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kiosk-labs/kiosk/internal/manifest"
)

// Loader turns a bundle directory into an Entry. Every call reads the entry
// file from disk; nothing is cached.
type Loader struct{}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and validates the bundle in dir and returns it as id. The
// returned Entry has no Origin set.
func (l *Loader) Load(id, dir string) (Entry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: resolving %s: %w", ErrLoad, dir, err)
	}

	entryFile, ok := manifest.FindEntryFile(abs)
	if !ok {
		return Entry{}, fmt.Errorf("%w in %s (tried %s)", ErrMissingEntryFile, abs, strings.Join(manifest.EntryFileNames, ", "))
	}

	doc, err := manifest.ReadDocument(entryFile)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	v, err := manifest.Check(doc)
	if err != nil {
		var invalid *manifest.InvalidError
		if errors.As(err, &invalid) {
			return Entry{}, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, entryFile, err)
		}
		return Entry{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	m := v.Manifest()
	return Entry{
		ID:          id,
		Name:        m.Name,
		Description: m.Description,
		Version:     m.Version,
		Author:      m.Author,
		Component:   m.Component,
		Icon:        m.Icon,
		Tags:        m.Tags,
		Path:        abs,
		EntryFile:   entryFile,
	}, nil
}
