package registry

import (
	"fmt"
	"iter"
	"os"
	"strings"
)

// readDir lists a root directory.
var readDir = os.ReadDir

// Scan returns the names of the immediate subdirectories of root in sorted
// order. The directory is read once, when Scan is called; the sequence can be
// iterated any number of times. When root does not exist the error wraps
// ErrRootMissing, and when it cannot be listed the error wraps
// ErrRootUnreadable. In both cases the sequence is empty. Hidden directories
// and non-directories are skipped.
func Scan(root string) (iter.Seq[string], error) {
	empty := func(func(string) bool) {}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return empty, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}

	entries, err := readDir(root)
	if err != nil {
		return empty, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	return func(yield func(string) bool) {
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}, nil
}
