package compose

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"injectgen/internal/common"
	"injectgen/internal/decl"
	"injectgen/internal/diagnostic"
	"injectgen/internal/registry"
	"injectgen/internal/visibility"
)

// targetState tracks a declaration through the resolution pass.
type targetState int

const (
	stateUnresolved targetState = iota
	stateInProgress
	stateResolved
	stateFailed
)

// outcome is the memoized result of resolving one declaration.
type outcome struct {
	state targetState
	comp  *ResolvedComposition
	// local holds the diagnostics discovered while resolving this target.
	local diagnostic.Diagnostics
	// blockedCode is the diagnostic code dependents inherit when they try to
	// inject from this target after it failed.
	blockedCode string
}

// Resolver computes resolved compositions for a frozen set of declarations.
// The full pipeline (graph build, cycle exclusion, topological resolution)
// runs exactly once; results are memoized per target identity.
type Resolver struct {
	reg    *registry.Registry
	config Config

	mu   sync.RWMutex
	memo map[decl.TypeIdentity]*outcome

	planOnce sync.Once
	plan     *Plan
}

// NewResolver creates a Resolver over the given registry. The registry is
// frozen on the first call to Resolve or ResolveAll.
func NewResolver(reg *registry.Registry, config Config) *Resolver {
	return &Resolver{
		reg:    reg,
		config: config,
		memo:   make(map[decl.TypeIdentity]*outcome),
	}
}

// ResolveAll runs the full resolution pass and returns the plan. Subsequent
// calls return the same plan.
func (r *Resolver) ResolveAll() *Plan {
	r.planOnce.Do(r.run)
	return r.plan
}

// Resolve returns the composition for a single target, running the full pass
// on first use. On failure it returns the target's error diagnostics instead.
func (r *Resolver) Resolve(id decl.TypeIdentity) (*ResolvedComposition, []diagnostic.Diagnostic) {
	plan := r.ResolveAll()

	if c, ok := plan.Composition(id); ok {
		return c, nil
	}

	errs := plan.Diagnostics.ErrorsFor(id.String())
	if len(errs) == 0 {
		errs = []diagnostic.Diagnostic{{
			Severity: diagnostic.SeverityError,
			Code:     diagnostic.CodeInvalidTargetKind,
			Message:  fmt.Sprintf("no record declaration registered for %s", id),
			Target:   id.String(),
		}}
	}

	return nil, errs
}

// run executes the resolution pipeline once.
func (r *Resolver) run() {
	r.reg.Freeze()

	graph, buildDiags := BuildGraph(r.reg)

	plan := &Plan{
		byTarget: make(map[decl.TypeIdentity]*ResolvedComposition),
		failed:   make(map[decl.TypeIdentity]bool),
	}
	plan.Diagnostics.Merge(buildDiags)

	// Targets whose requests were rejected at graph build still resolve (to
	// surface further independent diagnostics) but always finish failed.
	preFailed := make(map[decl.TypeIdentity]string)

	for _, id := range graph.Nodes() {
		if errs := buildDiags.ErrorsFor(id.String()); len(errs) > 0 {
			preFailed[id] = errs[0].Code
		}
	}

	excluded := r.excludeCycles(graph, plan)

	live := make([]decl.TypeIdentity, 0, len(graph.Nodes()))
	liveIndex := make(map[decl.TypeIdentity]int)

	for _, id := range graph.Nodes() {
		if _, ok := excluded[id]; ok {
			continue
		}

		liveIndex[id] = len(live)
		live = append(live, id)
	}

	depsFn := func(i int) []int {
		var deps []int
		for _, e := range graph.Outgoing(live[i]) {
			// Every edge of a live node points at a live node: a node with
			// an edge into the excluded set would itself reach a cycle.
			deps = append(deps, liveIndex[e.Source])
		}

		return deps
	}

	order, err := topoSortNodes(len(live), depsFn)
	if err != nil {
		// Unreachable once cycles are excluded; surface rather than panic.
		plan.Diagnostics.AddError(diagnostic.CodeCircularInjection,
			"internal: dependency graph still cyclic after cycle exclusion: "+err.Error(), "", "")
		r.plan = plan

		return
	}

	if r.config.Parallel {
		for _, lvl := range topoLevels(order, depsFn) {
			var eg errgroup.Group
			if r.config.Workers > 0 {
				eg.SetLimit(r.config.Workers)
			}

			for _, i := range lvl {
				id := live[i]
				eg.Go(func() error {
					r.resolveOne(graph, id, preFailed[id])
					return nil
				})
			}

			// resolveOne never returns an error; Wait only joins the level.
			_ = eg.Wait()
		}
	} else {
		for _, i := range order {
			id := live[i]
			r.resolveOne(graph, id, preFailed[id])
		}
	}

	// Assemble in registration order so plans are byte-identical across runs.
	for _, id := range graph.Nodes() {
		out := r.outcomeFor(id)
		if out == nil {
			continue
		}

		plan.Diagnostics.Merge(out.local)

		if out.state == stateResolved {
			plan.Compositions = append(plan.Compositions, *out.comp)
			plan.byTarget[id] = out.comp
		} else {
			plan.failed[id] = true
		}
	}

	r.plan = plan
}

// excludeCycles reports circular injection chains and returns the set of
// nodes excluded from resolution: every cycle participant plus every node
// that transitively depends on one.
func (r *Resolver) excludeCycles(graph *Graph, plan *Plan) map[decl.TypeIdentity]Cycle {
	cycles := FindCycles(graph)
	if common.IsEmpty(cycles) {
		return nil
	}

	excluded := make(map[decl.TypeIdentity]Cycle)

	for _, cycle := range cycles {
		// One diagnostic per participating edge, so every struct on the
		// chain gets an actionable message.
		for i, id := range cycle {
			next := cycle[(i+1)%len(cycle)]
			plan.Diagnostics.AddError(diagnostic.CodeCircularInjection,
				fmt.Sprintf("circular injection chain detected: %s already depends on %s (cycle: %s)",
					id, next, cycle),
				id.String(), "")

			if _, ok := excluded[id]; !ok {
				excluded[id] = cycle
			}
		}
	}

	// Walk reverse edges from the cycle participants: anything that injects
	// from a cycle, directly or transitively, cannot resolve either.
	reverse := make(map[decl.TypeIdentity][]decl.TypeIdentity)

	for _, id := range graph.Nodes() {
		for _, e := range graph.Outgoing(id) {
			reverse[e.Source] = append(reverse[e.Source], id)
		}
	}

	queue := make([]decl.TypeIdentity, 0, len(excluded))
	for _, id := range graph.Nodes() {
		if _, ok := excluded[id]; ok {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, dependent := range reverse[id] {
			if _, ok := excluded[dependent]; ok {
				continue
			}

			cycle := excluded[id]
			excluded[dependent] = cycle
			queue = append(queue, dependent)

			plan.Diagnostics.AddError(diagnostic.CodeCircularInjection,
				fmt.Sprintf("cannot resolve %s: it depends on a circular injection chain (cycle: %s)",
					dependent, cycle),
				dependent.String(), "")
		}
	}

	for id := range excluded {
		r.storeOutcome(id, &outcome{
			state:       stateFailed,
			blockedCode: diagnostic.CodeCircularInjection,
		})
	}

	return excluded
}

// resolveOne computes the composition for a single target. All of the
// target's sources are guaranteed to have outcomes already: resolution runs
// in topological order derived from the cycle-free graph, so re-entering an
// in-progress target is impossible by construction.
func (r *Resolver) resolveOne(graph *Graph, id decl.TypeIdentity, preFailedCode string) {
	d, _ := r.reg.Lookup(id)

	out := &outcome{state: stateInProgress}
	comp := &ResolvedComposition{Target: id}

	// owners tracks which declaration provided each member name, for
	// collision reporting.
	owners := make(map[string]decl.TypeIdentity, len(d.Members))

	for _, m := range d.Members {
		if _, dup := owners[m.Name]; dup {
			out.local.AddError(diagnostic.CodeDuplicateMember,
				fmt.Sprintf("duplicate member %q: declared more than once on %s", m.Name, id),
				id.String(), m.Name)

			continue
		}

		owners[m.Name] = id
		comp.Members = append(comp.Members, ResolvedMember{
			Name:       m.Name,
			Type:       m.Type,
			Visibility: m.Visibility,
			Owner:      id,
		})
	}

	for _, e := range graph.Outgoing(id) {
		srcOut := r.outcomeFor(e.Source)
		if srcOut == nil || srcOut.state != stateResolved {
			code := diagnostic.CodeCircularInjection
			if srcOut != nil && srcOut.blockedCode != "" {
				code = srcOut.blockedCode
			}

			out.local.AddError(code,
				fmt.Sprintf("cannot inject members from %s: source did not resolve", e.Source),
				id.String(), "")

			continue
		}

		srcDecl, _ := r.reg.Lookup(e.Source)

		if len(e.Request.TypeArgs) != len(srcDecl.GenericParams) {
			mismatch := &ArityMismatchError{
				Source:   e.Source,
				Expected: len(srcDecl.GenericParams),
				Actual:   len(e.Request.TypeArgs),
			}
			out.local.AddError(diagnostic.CodeArityMismatch, mismatch.Error(), id.String(), "")

			continue
		}

		subst := substitutionFor(srcDecl.GenericParams, e.Request.TypeArgs)

		// The source's composition already contains its own transitively
		// injected members, so one pass over it flattens the whole chain
		// depth-first.
		for _, im := range srcOut.comp.Members {
			m := decl.Member{
				Name:       im.Name,
				Type:       substituteTypeExpr(im.Type, subst),
				Visibility: im.Visibility,
				Owner:      im.Owner,
			}

			// Visibility is evaluated against the requesting target's module
			// at every hop; each intermediate source already ran this check
			// for its own module, so re-export never widens access.
			if !visibility.Accessible(m, d.Module()) {
				out.local.AddWarning(diagnostic.CodeInaccessibleMember,
					visibility.DenialReason(m, d.Module()),
					id.String(), m.Name)

				continue
			}

			if firstOwner, dup := owners[m.Name]; dup {
				out.local.AddError(diagnostic.CodeDuplicateMember,
					fmt.Sprintf("duplicate member %q: already provided by %s, also provided by %s",
						m.Name, firstOwner, m.Owner),
					id.String(), m.Name)

				continue
			}

			owners[m.Name] = m.Owner

			prov := make([]decl.TypeIdentity, 0, len(im.Provenance)+1)
			prov = append(prov, im.Provenance...)
			prov = append(prov, e.Source)

			comp.Members = append(comp.Members, ResolvedMember{
				Name:       m.Name,
				Type:       m.Type,
				Visibility: m.Visibility,
				Owner:      m.Owner,
				Provenance: prov,
			})
		}
	}

	switch {
	case preFailedCode != "":
		out.state = stateFailed
		out.blockedCode = preFailedCode
	case out.local.HasErrors():
		first, _ := common.First(out.local.Errors)
		out.state = stateFailed
		out.blockedCode = first.Code
	default:
		out.state = stateResolved
		out.comp = comp
	}

	r.storeOutcome(id, out)
}

func (r *Resolver) outcomeFor(id decl.TypeIdentity) *outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.memo[id]
}

func (r *Resolver) storeOutcome(id decl.TypeIdentity, out *outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.memo[id] = out
}
