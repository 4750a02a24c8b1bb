// Package scaffold generates new extension bundles from embedded templates. It
// powers the "kiosk create" command, producing an entry file, a component
// stub and a README for each template set.
package scaffold
