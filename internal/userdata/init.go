package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kiosk-labs/kiosk/internal/platform"
)

// InitGlobal creates the userdata directory structure with proper permissions.
// It prints progress messages to w. Existing directories are skipped.
func InitGlobal(w io.Writer) error {
	root, err := GetUserdataRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(w, root, DirPermNormal); err != nil {
		return err
	}

	extRoot, err := GetExtensionsRoot()
	if err != nil {
		return err
	}
	if err := ensureDir(w, extRoot, DirPermNormal); err != nil {
		return err
	}

	// The saved setup answers may contain personal data.
	if err := ensureDir(w, filepath.Join(root, ConfigDir), DirPermSecure); err != nil {
		return err
	}

	return ensureDir(w, filepath.Join(root, LogsDir), DirPermNormal)
}

// EnsureExtensionsRoot creates the user extensions root if it is absent.
// It returns the path and whether it had to be created.
func EnsureExtensionsRoot() (string, bool, error) {
	extRoot, err := GetExtensionsRoot()
	if err != nil {
		return "", false, err
	}
	if info, statErr := os.Stat(extRoot); statErr == nil {
		if !info.IsDir() {
			return "", false, fmt.Errorf("%s exists but is not a directory", extRoot)
		}
		return extRoot, false, nil
	}
	if err := os.MkdirAll(extRoot, DirPermNormal); err != nil {
		return "", false, fmt.Errorf("creating extensions root %s: %w", extRoot, err)
	}
	return extRoot, true, nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := platform.MkdirPrivate(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
