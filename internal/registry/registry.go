// Package registry stores the immutable type declarations of one resolution
// pass. A registry is populated by an input adapter, frozen, and then only
// queried; later stages tolerate forward references because resolution never
// starts before population is complete.
package registry

import (
	"errors"
	"fmt"

	"injectgen/internal/decl"
)

var (
	// ErrDuplicateDeclaration is returned when the same type identity is
	// registered twice.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrInvalidTargetKind is returned when a non-record declaration claims
	// to participate in injection.
	ErrInvalidTargetKind = errors.New("invalid target kind")
	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")
)

// Registry is the append-only store of type declarations, keyed by identity.
// It is not safe for concurrent registration; freeze it before any concurrent
// reads.
type Registry struct {
	byName map[string]*decl.TypeDeclaration // keyed by TypeIdentity.NameKey()
	order  []decl.TypeIdentity              // registration order
	frozen bool
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*decl.TypeDeclaration),
	}
}

// Register adds a declaration to the registry. It fails if the registry is
// frozen, if the identity (module+name) was already registered, if the
// declared arity is inconsistent with the generic parameter list, or if a
// non-record declaration is marked injectable or carries injection requests.
func (r *Registry) Register(d *decl.TypeDeclaration) error {
	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrFrozen, d.ID)
	}

	if d.ID.Arity != len(d.GenericParams) {
		return fmt.Errorf("declaration %s: arity %d does not match %d generic parameters",
			d.ID, d.ID.Arity, len(d.GenericParams))
	}

	if d.Kind != decl.KindRecord {
		if d.Injectable {
			return fmt.Errorf("%w: %s is %s, only records can be injectable",
				ErrInvalidTargetKind, d.ID, d.Kind)
		}

		if len(d.Requests) > 0 {
			return fmt.Errorf("%w: %s is %s, only records can receive injected members",
				ErrInvalidTargetKind, d.ID, d.Kind)
		}
	}

	key := d.ID.NameKey()
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, d.ID)
	}

	r.byName[key] = d
	r.order = append(r.order, d.ID)

	return nil
}

// Freeze marks the registry read-only. Registering after Freeze fails.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the declaration for the given identity, matching on
// module+name. The identity's arity is not part of the lookup key: a module
// cannot declare two types with the same name, and injection sites reference
// sources before knowing their arity.
func (r *Registry) Lookup(id decl.TypeIdentity) (*decl.TypeDeclaration, bool) {
	d, ok := r.byName[id.NameKey()]
	return d, ok
}

// Find returns the declaration for the given module path and type name.
func (r *Registry) Find(module decl.ModulePath, name string) (*decl.TypeDeclaration, bool) {
	d, ok := r.byName[string(module)+"."+name]
	return d, ok
}

// FindRequestSource resolves an injection request's source reference.
func (r *Registry) FindRequestSource(req decl.InjectionRequest) (*decl.TypeDeclaration, bool) {
	d, ok := r.byName[req.SourceKey()]
	return d, ok
}

// Identities returns all registered identities in registration order.
func (r *Registry) Identities() []decl.TypeIdentity {
	out := make([]decl.TypeIdentity, len(r.order))
	copy(out, r.order)

	return out
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	return len(r.order)
}
