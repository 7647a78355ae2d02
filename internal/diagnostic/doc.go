// Package diagnostic provides the structured errors and warnings produced by
// the injection resolution pipeline.
//
// Diagnostics are pure data: they carry enough context (type identities,
// member names, module paths) for a front end to render a precise message,
// but rendering itself is left to the caller.
package diagnostic
