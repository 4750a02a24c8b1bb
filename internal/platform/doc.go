// Package platform provides the few filesystem operations whose behavior
// differs between operating systems: permission bits (a no-op on Windows) and
// probing whether a directory accepts writes.
package platform
