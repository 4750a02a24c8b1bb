package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestInitGlobal_CreatesStructure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("KIOSK_USERDATA", tmp)
	t.Setenv("KIOSK_EXTENSIONS", "")

	var buf bytes.Buffer
	if err := InitGlobal(&buf); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}

	assertDirExists(t, filepath.Join(tmp, "extensions"))
	assertDirExists(t, filepath.Join(tmp, "config"))
	assertDirExists(t, filepath.Join(tmp, "logs"))
	assertDirPerm(t, filepath.Join(tmp, "config"), DirPermSecure)

	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Error("expected [ OK ] in output")
	}
}

func TestInitGlobal_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("KIOSK_USERDATA", tmp)
	t.Setenv("KIOSK_EXTENSIONS", "")

	var buf1 bytes.Buffer
	if err := InitGlobal(&buf1); err != nil {
		t.Fatalf("first InitGlobal failed: %v", err)
	}

	var buf2 bytes.Buffer
	if err := InitGlobal(&buf2); err != nil {
		t.Fatalf("second InitGlobal failed: %v", err)
	}
	if strings.Contains(buf2.String(), "[ OK ] Created") {
		t.Errorf("second run created something:\n%s", buf2.String())
	}
	if !strings.Contains(buf2.String(), "[SKIP]") {
		t.Error("expected [SKIP] in second run output")
	}
}

func TestEnsureExtensionsRoot(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("KIOSK_USERDATA", tmp)
	t.Setenv("KIOSK_EXTENSIONS", "")

	root, created, err := EnsureExtensionsRoot()
	if err != nil {
		t.Fatalf("EnsureExtensionsRoot: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	assertDirExists(t, root)

	_, created, err = EnsureExtensionsRoot()
	if err != nil {
		t.Fatalf("second EnsureExtensionsRoot: %v", err)
	}
	if created {
		t.Error("expected created=false on second call")
	}
}

func TestEnsureExtensionsRoot_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "extensions")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KIOSK_USERDATA", tmp)
	t.Setenv("KIOSK_EXTENSIONS", "")

	if _, _, err := EnsureExtensionsRoot(); err == nil {
		t.Fatal("expected error when extensions root is a file")
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %s to exist: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", path)
	}
}

func assertDirPerm(t *testing.T, path string, expected os.FileMode) {
	t.Helper()
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if perm := info.Mode().Perm(); perm != expected {
		t.Errorf("%s permissions = %o, want %o", path, perm, expected)
	}
}
