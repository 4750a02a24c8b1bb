package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// mutationLock serializes LoadAll, Install and Uninstall. Contended callers
// are rejected rather than queued. The optional file lock extends the guard
// to other processes sharing the same userdata directory; only operations
// that write to the user root take it.
type mutationLock struct {
	mu   sync.Mutex
	path string
}

// acquire returns a release func, or ErrBusy when the lock is held. The file
// lock is taken only when crossProcess is set.
func (l *mutationLock) acquire(crossProcess bool) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrBusy
	}
	if !crossProcess || l.path == "" {
		return l.mu.Unlock, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	fl := flock.New(l.path)
	locked, err := fl.TryLock()
	if err != nil {
		l.mu.Unlock()
		return nil, fmt.Errorf("acquiring %s: %w", l.path, err)
	}
	if !locked {
		l.mu.Unlock()
		return nil, ErrBusy
	}
	return func() {
		_ = fl.Unlock()
		l.mu.Unlock()
	}, nil
}
