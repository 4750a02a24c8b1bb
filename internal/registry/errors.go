package registry

import "errors"

var (
	// ErrRootMissing is reported when a scanned root does not exist.
	ErrRootMissing = errors.New("extension root does not exist")
	// ErrRootUnreadable is reported when a root exists but cannot be listed.
	ErrRootUnreadable = errors.New("extension root could not be read")
	// ErrMissingEntryFile means a bundle has no extension.yaml/.yml/.json.
	ErrMissingEntryFile = errors.New("no entry file found")
	// ErrLoad means the entry file could not be read or parsed.
	ErrLoad = errors.New("failed to load entry file")
	// ErrInvalidManifest means the entry file failed validation.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrAlreadyExists means the target user directory is already present.
	ErrAlreadyExists = errors.New("extension already installed")
	// ErrNotFound means there is no user-installed extension with that id.
	ErrNotFound = errors.New("extension not found in user root")
	// ErrPartialDelete means removal stopped part way through.
	ErrPartialDelete = errors.New("extension only partially deleted")
	// ErrInvalidSource means the install source is unusable.
	ErrInvalidSource = errors.New("invalid install source")
	// ErrInvalidIdentifier means an id could escape the user root.
	ErrInvalidIdentifier = errors.New("invalid extension identifier")
	// ErrBusy means another mutation is in progress.
	ErrBusy = errors.New("another extension operation is in progress")
)
