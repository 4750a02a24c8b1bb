package registry

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestScanSortedSubdirectories(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"lights", "clock", "gpio", ".staging"} {
		if err := os.Mkdir(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	seq, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := slices.Collect(seq)
	want := []string{"clock", "gpio", "lights"}
	if !slices.Equal(got, want) {
		t.Errorf("Scan = %v, want %v", got, want)
	}

	// Re-iterating yields the same names.
	if again := slices.Collect(seq); !slices.Equal(again, want) {
		t.Errorf("second iteration = %v, want %v", again, want)
	}
}

func TestScanMissingRoot(t *testing.T) {
	seq, err := Scan(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrRootMissing) {
		t.Fatalf("expected ErrRootMissing, got %v", err)
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Errorf("expected empty sequence, got %v", got)
	}
}

func TestScanRootIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Scan(f); !errors.Is(err, ErrRootMissing) {
		t.Fatalf("expected ErrRootMissing, got %v", err)
	}
}

func TestScanEarlyStop(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"a", "b", "c"} {
		if err := os.Mkdir(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	seq, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	var first string
	for id := range seq {
		first = id
		break
	}
	if first != "a" {
		t.Errorf("first = %q, want a", first)
	}
}

func TestScanUnreadableRoot(t *testing.T) {
	denied := errors.New("permission denied")
	orig := readDir
	readDir = func(string) ([]os.DirEntry, error) { return nil, denied }
	t.Cleanup(func() { readDir = orig })

	seq, err := Scan(t.TempDir())
	if !errors.Is(err, ErrRootUnreadable) || !errors.Is(err, denied) {
		t.Fatalf("expected ErrRootUnreadable wrapping the read error, got %v", err)
	}
	if errors.Is(err, ErrRootMissing) {
		t.Error("an unreadable root is not a missing root")
	}
	if got := slices.Collect(seq); len(got) != 0 {
		t.Errorf("expected empty sequence, got %v", got)
	}
}

func TestScanReadsOnce(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "clock"), 0755); err != nil {
		t.Fatal(err)
	}
	seq, err := Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "gpio"), 0755); err != nil {
		t.Fatal(err)
	}
	if got := slices.Collect(seq); !slices.Equal(got, []string{"clock"}) {
		t.Errorf("Scan = %v, want the listing taken when Scan was called", got)
	}
}
