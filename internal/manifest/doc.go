// Package manifest loads declaration sets from YAML files. A manifest
// describes the same model the Go source analyzer discovers from directives:
// named record types, their members and visibility, and their injection
// requests. Manifests are the main input for tests and for composing types
// that do not exist as Go source yet.
package manifest
