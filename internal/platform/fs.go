package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets permission bits on path. Windows has no Unix permission bits,
// so it does nothing there.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MkdirPrivate creates dir (and parents) and forces mode on the leaf, since
// MkdirAll is subject to the umask.
func MkdirPrivate(dir string, mode os.FileMode) error {
	if err := os.MkdirAll(dir, mode); err != nil {
		return err
	}
	return Chmod(dir, mode)
}

// CheckWritable reports whether files can be created in dir by creating and
// removing a temporary probe file.
func CheckWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("removing probe file %s: %w", name, err)
	}
	return nil
}
