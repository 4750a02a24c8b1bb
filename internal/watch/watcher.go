// Package watch reloads the extension registry when either extension root
// changes on disk.
//
// Events are debounced: a burst of writes (for example a bundle being copied
// into the user root) results in one reload after the burst goes quiet.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// ignoredNames never trigger a reload.
var ignoredNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	".DS_Store":    true,
}

// ignoredSuffixes are editor swap and backup files.
var ignoredSuffixes = []string{".swp", ".swo", "~"}

// Config holds the parameters for a Watcher.
type Config struct {
	// Roots are the directories to watch recursively. Roots that do not
	// exist are skipped.
	Roots []string

	// Debounce is the quiet period before OnChange fires. Zero uses 500ms.
	Debounce time.Duration

	// OnChange is called with the changed paths after the debounce window.
	// When it returns an error the paths stay pending and it is called again
	// after another window.
	OnChange func(ctx context.Context, changed []string) error

	Logger zerolog.Logger
}

// Watcher monitors the roots and fires a debounced callback. Run must be
// called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration
	watched  []string
	started  atomic.Bool
}

// New creates a Watcher and registers every directory under the roots.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		log:      cfg.Logger.With().Str("component", "watch").Logger(),
		debounce: debounce,
	}

	for _, root := range cfg.Roots {
		info, statErr := os.Stat(root)
		if statErr != nil || !info.IsDir() {
			w.log.Warn().Str("root", root).Msg("not watching missing root")
			continue
		}
		if err := w.addTree(root); err != nil {
			fsw.Close()
			return nil, err
		}
		w.watched = append(w.watched, root)
	}
	if len(w.watched) == 0 {
		fsw.Close()
		return nil, errors.New("watch: none of the extension roots exist")
	}

	return w, nil
}

// Watched returns the roots actually being watched.
func (w *Watcher) Watched() []string {
	return append([]string(nil), w.watched...)
}

// Run blocks until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		// Skip while a previous callback is still running; retry later so
		// the pending set is not lost.
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		mu.Unlock()

		w.log.Debug().Int("changed", len(changed)).Msg("change detected")
		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Dur("retry_in", w.debounce).Msg("reload callback failed")
			mu.Lock()
			for _, p := range changed {
				pending[p] = struct{}{}
			}
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn().Err(err).Msg("closing fsnotify watcher")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed")
			}
			if isIgnored(evt.Name) || (evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write)) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn().Err(err).Msg("event overflow, forcing reload")
				mu.Lock()
				pending["<overflow>"] = struct{}{}
				if timer == nil {
					timer = time.AfterFunc(w.debounce, fire)
				} else {
					timer.Reset(w.debounce)
				}
				mu.Unlock()
				continue
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// addTree adds root and every non-ignored directory beneath it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("skipping inaccessible path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
}

// maybeAddDir starts watching a directory created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("could not watch new directory")
	}
}

func isIgnored(path string) bool {
	name := filepath.Base(path)
	if ignoredNames[name] {
		return true
	}
	for _, s := range ignoredSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if ignoredNames[part] {
			return true
		}
	}
	return false
}
