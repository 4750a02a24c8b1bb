package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// excludedNames are files/directories excluded during installation.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// removeFile deletes a single file or empty directory.
var removeFile = os.Remove

func joinRoot(root, id string) string {
	return filepath.Join(root, id)
}

// copyDir recursively copies src to dst, excluding entries in excludedNames.
// Symlinks and special files are skipped. Directories get the source mode
// once their contents are in place, always keeping owner rwx so the copy can
// later be uninstalled.
func copyDir(ctx context.Context, src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if shouldExclude(entry.Name()) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(ctx, srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return os.Chmod(dst, srcInfo.Mode().Perm()|0700)
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}

// removeDir deletes dir bottom-up: the contents of each directory first, then
// the directory itself. It stops at the first failure.
func removeDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := removeDir(ctx, p); err != nil {
				return err
			}
			continue
		}
		if err := removeFile(p); err != nil {
			return err
		}
	}

	return removeFile(dir)
}
