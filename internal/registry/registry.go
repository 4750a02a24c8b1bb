package registry

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry maps extension ids to entries. The zero value is not usable; call
// New.
type Registry struct {
	roots  Roots
	loader *Loader
	now    func() time.Time
	log    zerolog.Logger
	lock   mutationLock

	mu      sync.RWMutex
	entries map[string]Entry
	report  LoadReport
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log.With().Str("component", "registry").Logger()
	}
}

// WithLockFile adds a cross-process file lock at path to Install and
// Uninstall.
func WithLockFile(path string) Option {
	return func(r *Registry) {
		r.lock.path = path
	}
}

// WithClock sets the time source used for LoadReport.StartedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New returns an empty Registry over roots.
func New(roots Roots, opts ...Option) *Registry {
	r := &Registry{
		roots:   roots,
		loader:  NewLoader(),
		now:     time.Now,
		log:     zerolog.Nop(),
		entries: map[string]Entry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roots returns the scanned roots.
func (r *Registry) Roots() Roots {
	return r.roots
}

// LoadAll rebuilds the registry from disk: the built-in root first, then the
// user root, so a user bundle replaces a built-in bundle with the same id.
// Candidates that fail to load are logged and skipped. The new mapping
// replaces the old one in a single step and a copy of it is returned.
//
// LoadAll takes only the in-process guard; another process holding the lock
// file does not block it. Errors come only from that guard (ErrBusy) or from
// ctx, and in either case the registry is unchanged and the current mapping
// is returned.
func (r *Registry) LoadAll(ctx context.Context) (map[string]Entry, error) {
	release, err := r.lock.acquire(false)
	if err != nil {
		return r.GetAll(), err
	}
	defer release()

	next := make(map[string]Entry)
	report := LoadReport{StartedAt: r.now()}

	passes := []struct {
		root   string
		origin Origin
	}{
		{r.roots.Builtin, OriginBuiltin},
		{r.roots.User, OriginUser},
	}
	for _, pass := range passes {
		if pass.root == "" {
			continue
		}
		if err := r.loadRoot(ctx, pass.root, pass.origin, next, &report); err != nil {
			return r.GetAll(), err
		}
	}
	report.Loaded = len(next)

	r.mu.Lock()
	r.entries = next
	r.report = report
	r.mu.Unlock()

	r.log.Info().
		Int("loaded", report.Loaded).
		Int("failed", len(report.Failures)).
		Int("shadowed", len(report.Shadowed)).
		Msg("extensions loaded")

	return cloneEntries(next), nil
}

func (r *Registry) loadRoot(ctx context.Context, root string, origin Origin, into map[string]Entry, report *LoadReport) error {
	ids, err := Scan(root)
	switch {
	case errors.Is(err, ErrRootMissing):
		report.MissingRoots = append(report.MissingRoots, root)
		r.log.Warn().Err(err).Str("root", string(origin)).Msg("skipping extension root")
		return nil
	case err != nil:
		report.UnreadableRoots = append(report.UnreadableRoots, root)
		r.log.Error().Err(err).Str("op", "scan").Str("root", string(origin)).Str("path", root).Msg("skipping extension root")
		return nil
	}

	for id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := joinRoot(root, id)
		entry, err := r.loader.Load(id, dir)
		if err != nil {
			report.Failures = append(report.Failures, Failure{
				ID:     id,
				Origin: origin,
				Path:   dir,
				Reason: failureReason(err),
				Err:    err,
			})
			r.log.Error().Err(err).Str("op", "load").Str("id", id).Str("root", string(origin)).Msg("failed to load extension")
			continue
		}
		entry.Origin = origin

		if prev, ok := into[id]; ok && origin == OriginUser {
			entry.Shadows = true
			report.Shadowed = append(report.Shadowed, id)
			r.logShadow(prev, entry)
		}
		into[id] = entry
		r.log.Debug().Str("id", id).Str("root", string(origin)).Str("version", entry.Version).Msg("loaded extension")
	}
	return nil
}

func (r *Registry) logShadow(builtin, user Entry) {
	ev := r.log.Info()
	if isOlder(user.Version, builtin.Version) {
		ev = r.log.Warn()
	}
	ev.Str("id", user.ID).
		Str("builtin_version", builtin.Version).
		Str("user_version", user.Version).
		Msg("user extension shadows built-in")
}

// isOlder reports whether a is a lower semantic version than b. Non-semver
// versions never compare as older.
func isOlder(a, b string) bool {
	va, err := Entry{Version: a}.SemVer()
	if err != nil {
		return false
	}
	vb, err := Entry{Version: b}.SemVer()
	if err != nil {
		return false
	}
	return va.LessThan(vb)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingEntryFile):
		return "missing entry file"
	case errors.Is(err, ErrInvalidManifest):
		return "invalid manifest"
	default:
		return "load error"
	}
}

// Get returns the entry registered under id.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// GetAll returns a copy of the current mapping.
func (r *Registry) GetAll() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEntries(r.entries)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Report returns the summary of the most recent LoadAll.
func (r *Registry) Report() LoadReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report.clone()
}

func (r *Registry) put(e Entry) {
	r.mu.Lock()
	r.entries[e.ID] = e
	r.mu.Unlock()
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func cloneEntries(m map[string]Entry) map[string]Entry {
	out := make(map[string]Entry, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}
