// Package manifest handles parsing and validation of extension entry files
// (extension.yaml, extension.yml or extension.json). A decoded document is
// checked against an embedded JSON Schema; only a document that passes can be
// turned into a Validated manifest.
package manifest
