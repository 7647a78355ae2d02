package compose

import (
	"strings"

	"injectgen/internal/decl"
)

// Cycle is an ordered sequence of identities forming a circular injection
// chain. The first element is the node at which the cycle was closed; the
// last element injects from the first.
type Cycle []decl.TypeIdentity

// String renders the cycle as "A -> B -> A".
func (c Cycle) String() string {
	parts := make([]string, 0, len(c)+1)
	for _, id := range c {
		parts = append(parts, id.String())
	}

	if len(c) > 0 {
		parts = append(parts, c[0].String())
	}

	return strings.Join(parts, " -> ")
}

// Contains reports whether the identity participates in the cycle.
func (c Cycle) Contains(id decl.TypeIdentity) bool {
	for _, member := range c {
		if member == id {
			return true
		}
	}

	return false
}

// dfs coloring scheme.
type nodeColor int

const (
	colorUnvisited nodeColor = iota
	colorInProgress
	colorDone
)

// FindCycles runs depth-first traversal over the graph and returns every
// circular injection chain. Traversal order follows registration order for
// nodes and declaration order for edges, so the result is deterministic. An
// edge into an in-progress node closes a cycle.
func FindCycles(g *Graph) []Cycle {
	colors := make(map[decl.TypeIdentity]nodeColor, len(g.nodes))

	var (
		cycles []Cycle
		path   []decl.TypeIdentity
	)

	var visit func(id decl.TypeIdentity)
	visit = func(id decl.TypeIdentity) {
		colors[id] = colorInProgress
		path = append(path, id)

		for _, e := range g.Outgoing(id) {
			switch colors[e.Source] {
			case colorUnvisited:
				visit(e.Source)
			case colorInProgress:
				// Found a back edge: the cycle runs from the re-visited
				// node to the current end of the path.
				for i, n := range path {
					if n == e.Source {
						cycle := make(Cycle, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)

						break
					}
				}
			case colorDone:
				// Already explored, nothing to do.
			}
		}

		path = path[:len(path)-1]
		colors[id] = colorDone
	}

	for _, id := range g.Nodes() {
		if colors[id] == colorUnvisited {
			visit(id)
		}
	}

	return cycles
}
