// Package compose implements the composition-resolution engine: it builds the
// injection dependency graph over registered declarations, rejects cycles,
// instantiates generic sources, filters members through visibility rules, and
// produces the final ordered member list for every target.
//
// Key guarantees:
//   - Deterministic output: member order follows declaration order, and plan
//     assembly follows registration order, so the same declaration set always
//     resolves to an identical plan.
//   - Memoized transitive resolution: a source shared by many targets is
//     resolved exactly once per pass.
//   - A target with any error diagnostic never produces a composition;
//     diagnostics for one target never block unrelated targets.
package compose
