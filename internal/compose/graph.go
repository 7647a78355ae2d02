package compose

import (
	"fmt"

	"injectgen/internal/decl"
	"injectgen/internal/diagnostic"
	"injectgen/internal/registry"
)

// Edge is a directed target→source dependency carrying the injection
// request's concrete type arguments.
type Edge struct {
	// Target is the requesting declaration.
	Target decl.TypeIdentity
	// Source is the resolved identity of the injection source.
	Source decl.TypeIdentity
	// Request is the original declaration-site request.
	Request decl.InjectionRequest
}

// Graph is the injection dependency graph of one resolution pass. Nodes are
// the registered record declarations; edges point from a target to each of
// its sources, in request declaration order. Built once, read-only after.
type Graph struct {
	nodes []decl.TypeIdentity
	index map[decl.TypeIdentity]int
	out   map[decl.TypeIdentity][]Edge
}

// Nodes returns the graph's nodes in registration order.
func (g *Graph) Nodes() []decl.TypeIdentity {
	return g.nodes
}

// Outgoing returns the target's edges in request declaration order.
func (g *Graph) Outgoing(id decl.TypeIdentity) []Edge {
	return g.out[id]
}

// Contains reports whether the identity is a node of the graph.
func (g *Graph) Contains(id decl.TypeIdentity) bool {
	_, ok := g.index[id]
	return ok
}

// BuildGraph validates every registered injection request and builds the
// dependency graph. Requests whose source is unknown, not injectable, not a
// record, or a literal duplicate of an earlier request produce error
// diagnostics against the requesting target and no edge.
func BuildGraph(reg *registry.Registry) (*Graph, diagnostic.Diagnostics) {
	g := &Graph{
		index: make(map[decl.TypeIdentity]int),
		out:   make(map[decl.TypeIdentity][]Edge),
	}

	var diags diagnostic.Diagnostics

	for _, id := range reg.Identities() {
		d, _ := reg.Lookup(id)
		if d.Kind != decl.KindRecord {
			continue
		}

		g.index[d.ID] = len(g.nodes)
		g.nodes = append(g.nodes, d.ID)
	}

	for _, id := range g.nodes {
		d, _ := reg.Lookup(id)

		seen := make(map[string]bool, len(d.Requests))

		for _, req := range d.Requests {
			if seen[req.Key()] {
				diags.AddError(diagnostic.CodeDuplicateRequest,
					fmt.Sprintf("duplicate injection request: %s already injects %s", d.ID, req.SourceRef()),
					d.ID.String(), "")

				continue
			}

			seen[req.Key()] = true

			src, ok := reg.FindRequestSource(req)
			if !ok {
				diags.AddError(diagnostic.CodeSourceNotInjectable,
					fmt.Sprintf("cannot inject members from %q: no such type registered", req.SourceKey()),
					d.ID.String(), "")

				continue
			}

			if src.Kind != decl.KindRecord {
				diags.AddError(diagnostic.CodeInvalidTargetKind,
					fmt.Sprintf("cannot inject members from %s: it is %s, not a record", src.ID, src.Kind),
					d.ID.String(), "")

				continue
			}

			if !src.Injectable {
				diags.AddError(diagnostic.CodeSourceNotInjectable,
					fmt.Sprintf("cannot inject members from %s: it is not marked injectable", src.ID),
					d.ID.String(), "")

				continue
			}

			g.out[d.ID] = append(g.out[d.ID], Edge{
				Target:  d.ID,
				Source:  src.ID,
				Request: req,
			})
		}
	}

	return g, diags
}
