// Package decl defines the declaration model consumed by the resolution
// pipeline: type identities, members, visibility, and injection requests.
//
// Values in this package are built once by an input adapter (the Go source
// analyzer or the YAML manifest loader) and never mutated afterwards; every
// later stage treats them as read-only.
package decl
