// Package userdata resolves and creates the per-user data tree of the kiosk
// (~/.kiosk by default): the user extensions root, the config directory that
// holds the setup answers, the logs directory and the mutation lock file. It
// also locates the read-only built-in extensions root shipped with the binary.
package userdata
