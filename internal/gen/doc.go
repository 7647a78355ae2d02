// Package gen renders resolved compositions as Go source: one generated file
// per target, containing the fully-materialized struct definition with every
// injected member in resolution order.
//
// Generation consumes the resolved model only; it performs no type checking
// of its own. Whether an emitted member type is valid at its new use site is
// the host compiler's concern.
package gen
