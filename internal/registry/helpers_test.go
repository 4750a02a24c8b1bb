package registry

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func manifestFields(name, version string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": name + " extension",
		"version":     version,
		"author":      "Test Author",
		"component":   "TestComponent",
	}
}

// writeBundle creates root/id/extension.yaml from fields.
func writeBundle(t *testing.T, root, id string, fields map[string]any) string {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := yaml.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extension.yaml"), data, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// newTestRegistry returns a registry over fresh built-in and user roots.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, Roots) {
	t.Helper()
	tmp := t.TempDir()
	roots := Roots{
		Builtin: filepath.Join(tmp, "builtin"),
		User:    filepath.Join(tmp, "user"),
	}
	for _, d := range []string{roots.Builtin, roots.User} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(roots, opts...), roots
}

// snapshotTree maps every relative path under root to its contents ("" for
// directories).
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			out[rel] = ""
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return out
}

func assertSameFile(t *testing.T, a, b string) {
	t.Helper()
	da, err := os.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("copy missing: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Errorf("%s differs from %s", b, a)
	}
}
