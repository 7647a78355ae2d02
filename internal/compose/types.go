package compose

import (
	"injectgen/internal/decl"
	"injectgen/internal/diagnostic"
)

// ResolvedMember is one member of a fully resolved composition.
type ResolvedMember struct {
	// Name of the member, unique within the composition.
	Name string
	// Type is the effective concrete type expression after generic
	// substitution at every injection site the member passed through.
	Type string
	// Visibility is the member's declared visibility; injection never widens
	// or narrows it.
	Visibility decl.Visibility
	// Owner is the identity of the type that originally declared the member.
	Owner decl.TypeIdentity
	// Provenance lists the source identities the member was copied through,
	// innermost declaration first. Empty for a target's own members.
	Provenance []decl.TypeIdentity
}

// Injected reports whether the member was copied from a source rather than
// declared on the target itself.
func (m ResolvedMember) Injected() bool {
	return len(m.Provenance) > 0
}

// ResolvedComposition is the final member set computed for one target.
type ResolvedComposition struct {
	// Target is the identity of the composed type.
	Target decl.TypeIdentity
	// Members is the final ordered member list: the target's own members
	// first, then injected members grouped by request in declaration order.
	Members []ResolvedMember
}

// Member returns the resolved member with the given name, if any.
func (c *ResolvedComposition) Member(name string) (ResolvedMember, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}

	return ResolvedMember{}, false
}

// MemberNames returns the member names in resolved order.
func (c *ResolvedComposition) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Name
	}

	return names
}

// Plan is the output of a full resolution pass.
type Plan struct {
	// Compositions holds one entry per successfully resolved declaration, in
	// registration order. Targets with error diagnostics are absent.
	Compositions []ResolvedComposition
	// Diagnostics contains all errors and warnings from the pass.
	Diagnostics diagnostic.Diagnostics

	byTarget map[decl.TypeIdentity]*ResolvedComposition
	failed   map[decl.TypeIdentity]bool
}

// Composition returns the resolved composition for the given target, if the
// target resolved successfully.
func (p *Plan) Composition(id decl.TypeIdentity) (*ResolvedComposition, bool) {
	c, ok := p.byTarget[id]
	return c, ok
}

// Failed reports whether the given target finished the pass with at least one
// error diagnostic.
func (p *Plan) Failed(id decl.TypeIdentity) bool {
	return p.failed[id]
}

// Config holds configuration for the resolution pass.
type Config struct {
	// Parallel enables concurrent resolution of independent targets. The
	// pass walks the dependency graph level by level, so every source is
	// resolved before any of its dependents starts.
	Parallel bool
	// Workers caps concurrent resolutions per level when Parallel is set.
	// Zero means no limit.
	Workers int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		Parallel: false,
		Workers:  0,
	}
}
