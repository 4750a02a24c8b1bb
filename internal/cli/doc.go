// Package cli defines the Cobra command tree for the kiosk CLI. Each file in
// this package registers one top-level command (list, install, watch, etc.)
// with the root command. Commands build their collaborators through openApp
// and talk to the extension registry and setup store only via the boundary
// Service; they handle flag parsing, I/O formatting and exit status.
package cli
