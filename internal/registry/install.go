package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Install copies the bundle at src into the user root and registers it. The
// id is the base name of src. If the copy succeeds but the bundle fails to
// load, the files stay in the user root and nothing is registered.
func (r *Registry) Install(ctx context.Context, src string) (Entry, error) {
	release, err := r.lock.acquire(true)
	if err != nil {
		return Entry{}, err
	}
	defer release()

	log := r.log.With().Str("op", "install").Str("source", src).Logger()

	srcAbs, id, err := r.checkSource(src)
	if err != nil {
		log.Error().Err(err).Msg("rejected install source")
		return Entry{}, err
	}
	log = log.With().Str("id", id).Logger()

	dst := joinRoot(r.roots.User, id)
	if _, err := os.Lstat(dst); err == nil {
		err = fmt.Errorf("installing %s: %w at %s", id, ErrAlreadyExists, dst)
		log.Error().Err(err).Msg("install refused")
		return Entry{}, err
	}

	if err := os.MkdirAll(r.roots.User, 0755); err != nil {
		return Entry{}, fmt.Errorf("creating user root %s: %w", r.roots.User, err)
	}

	if err := copyDir(ctx, srcAbs, dst); err != nil {
		// Nothing was registered; leave no half-copied bundle behind.
		_ = os.RemoveAll(dst)
		log.Error().Err(err).Msg("copy failed")
		return Entry{}, fmt.Errorf("installing %s: copying %s: %w", id, srcAbs, err)
	}

	entry, err := r.loader.Load(id, dst)
	if err != nil {
		log.Error().Err(err).Str("path", dst).Msg("installed bundle failed to load")
		return Entry{}, fmt.Errorf("installing %s: %w", id, err)
	}
	entry.Origin = OriginUser
	if prev, ok := r.Get(id); ok && prev.Origin == OriginBuiltin {
		entry.Shadows = true
		r.logShadow(prev, entry)
	}

	r.put(entry)
	log.Info().Str("version", entry.Version).Msg("extension installed")
	return entry.clone(), nil
}

// checkSource resolves src and derives the extension id from it.
func (r *Registry) checkSource(src string) (string, string, error) {
	if strings.TrimSpace(src) == "" {
		return "", "", fmt.Errorf("%w: empty path", ErrInvalidSource)
	}
	abs, err := filepath.Abs(filepath.Clean(src))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrInvalidSource, src, err)
	}
	id := filepath.Base(abs)
	if id == string(filepath.Separator) || id == "." || id == ".." {
		return "", "", fmt.Errorf("%w: %s has no usable directory name", ErrInvalidSource, src)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, abs)
	}

	userAbs, err := filepath.Abs(r.roots.User)
	if err == nil && isWithin(abs, userAbs) {
		return "", "", fmt.Errorf("%w: user root %s is inside %s", ErrInvalidSource, userAbs, abs)
	}
	return abs, id, nil
}

// isWithin reports whether path is dir or lies beneath it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Uninstall deletes <userRoot>/<id> and drops id from the registry. A
// built-in with the same id is not restored until the next LoadAll. If the
// deletion fails part way, the registry is left unchanged.
func (r *Registry) Uninstall(ctx context.Context, id string) error {
	log := r.log.With().Str("op", "uninstall").Str("id", id).Logger()

	if err := validateID(id); err != nil {
		log.Error().Err(err).Msg("rejected identifier")
		return err
	}

	release, err := r.lock.acquire(true)
	if err != nil {
		return err
	}
	defer release()

	dir := joinRoot(r.roots.User, id)
	info, err := os.Lstat(dir)
	if err != nil || !info.IsDir() {
		err = fmt.Errorf("uninstalling %s: %w", id, ErrNotFound)
		log.Error().Err(err).Msg("uninstall refused")
		return err
	}

	if err := removeDir(ctx, dir); err != nil {
		log.Error().Err(err).Str("path", dir).Msg("delete failed")
		return fmt.Errorf("uninstalling %s: %w: %w", id, ErrPartialDelete, err)
	}

	if e, ok := r.Get(id); ok && e.Origin == OriginUser {
		r.remove(id)
	}
	log.Info().Msg("extension uninstalled")
	return nil
}

func validateID(id string) error {
	switch {
	case id == "", id == ".", id == "..":
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	case strings.ContainsAny(id, `/\`), strings.ContainsRune(id, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, id)
	case filepath.VolumeName(id) != "":
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}

// IsUserInstalled reports whether id has a directory in the user root.
func (r *Registry) IsUserInstalled(id string) bool {
	if validateID(id) != nil {
		return false
	}
	info, err := os.Lstat(joinRoot(r.roots.User, id))
	return err == nil && info.IsDir()
}
