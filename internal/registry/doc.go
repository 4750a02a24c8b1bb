// Package registry discovers, loads and tracks extensions. It scans the
// built-in root and the user root into one namespace (user entries shadow
// built-in ones), validates each bundle before it is registered, and installs
// or removes bundles under the user root.
package registry
