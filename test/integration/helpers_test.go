//go:build integration

package integration_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kiosk-labs/kiosk/internal/boundary"
	"github.com/kiosk-labs/kiosk/internal/logging"
	"github.com/kiosk-labs/kiosk/internal/registry"
	"github.com/kiosk-labs/kiosk/internal/setup"
	"github.com/kiosk-labs/kiosk/internal/userdata"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	BuiltinDir  string // KIOSK_BUILTIN, read-only extensions
	UserdataDir string // KIOSK_USERDATA, holds extensions/, config/, logs/
	BundlesDir  string // bundles waiting to be installed
	Layout      *userdata.Layout
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all kiosk operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		BuiltinDir:  t.TempDir(),
		UserdataDir: t.TempDir(),
		BundlesDir:  t.TempDir(),
	}

	t.Setenv("KIOSK_BUILTIN", env.BuiltinDir)
	t.Setenv("KIOSK_USERDATA", env.UserdataDir)
	t.Setenv("KIOSK_EXTENSIONS", "")
	t.Setenv("KIOSK_QUESTIONS", "")

	if err := userdata.InitGlobal(&strings.Builder{}); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}
	layout, err := userdata.Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	env.Layout = layout
	return env
}

// newService wires a Service over env the way the binary does, logging to
// <userdata>/logs/app.log.
func newService(t *testing.T, env *testEnv) *boundary.Service {
	t.Helper()
	logger, err := logging.New(logging.Config{LogDir: env.Layout.LogsDir, Level: "debug"})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	zl := logger.Zerolog()
	reg := registry.New(
		registry.Roots{Builtin: env.Layout.Builtin, User: env.Layout.Extensions},
		registry.WithLogger(zl),
		registry.WithLockFile(env.Layout.Lock),
	)
	mgr := setup.NewManager(env.Layout.Questions, env.Layout.UserConfig, zl)
	return boundary.New(reg, mgr, zl)
}

// writeBundle creates root/<id>/extension.yaml with the five required fields.
func writeBundle(t *testing.T, root, id, name, version, author string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	writeManifest(t, dir, fmt.Sprintf(`name: %q
description: %q
version: %q
author: %q
component: %sPanel
`, name, name+" extension", version, author, strings.ToUpper(id[:1])+id[1:]))
	return dir
}

// writeManifest creates dir/extension.yaml with the given content.
func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "extension.yaml"), content)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
