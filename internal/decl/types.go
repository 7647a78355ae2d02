package decl

import (
	"fmt"
	"strings"

	"injectgen/internal/common"
)

// ModulePath is a slash-separated package path, e.g. "injectgen/examples/basic".
type ModulePath string

// String returns the path as a plain string.
func (m ModulePath) String() string {
	return string(m)
}

// IsWithin returns true if m is equal to scope or a descendant of it.
// Descent follows path segments: "a/b/c" is within "a/b" but not within "a/bc".
func (m ModulePath) IsWithin(scope ModulePath) bool {
	if m == scope {
		return true
	}

	return strings.HasPrefix(string(m), string(scope)+"/")
}

// TypeIdentity uniquely identifies a declared type by its module path, name,
// and generic arity. Equality is structural; identities are used as registry
// and memoization keys.
type TypeIdentity struct {
	Module ModulePath // e.g. "injectgen/examples/basic"
	Name   string     // e.g. "Base"
	Arity  int        // number of generic parameters, 0 for non-generic types
}

// String returns a human-readable representation of the identity.
func (t TypeIdentity) String() string {
	name := t.Name
	if t.Arity > 0 {
		name = fmt.Sprintf("%s[%d]", t.Name, t.Arity)
	}

	if t.Module == "" {
		return name
	}

	return string(t.Module) + "." + name
}

// NameKey returns the module+name lookup key, ignoring arity. A module cannot
// declare two types with the same name, so this key is unique per declaration
// and lets injection sites reference a type without knowing its arity.
func (t TypeIdentity) NameKey() string {
	return string(t.Module) + "." + t.Name
}

// VisibilityKind enumerates the supported member visibility levels.
type VisibilityKind int

const (
	// VisPublic - accessible from any module.
	VisPublic VisibilityKind = iota
	// VisPrivate - accessible only from the owning module.
	VisPrivate
	// VisRestricted - accessible from a module subtree rooted at a scope path.
	VisRestricted
)

// String returns a human-readable visibility name.
func (k VisibilityKind) String() string {
	switch k {
	case VisPublic:
		return "public"
	case VisPrivate:
		return "private"
	case VisRestricted:
		return "restricted"
	default:
		return common.UnknownStr
	}
}

// Visibility describes who may read a member. Scope is set only for
// VisRestricted and names the root of the allowed module subtree.
type Visibility struct {
	Kind  VisibilityKind
	Scope ModulePath
}

// Public returns a public visibility.
func Public() Visibility {
	return Visibility{Kind: VisPublic}
}

// Private returns a private visibility.
func Private() Visibility {
	return Visibility{Kind: VisPrivate}
}

// RestrictedTo returns a visibility restricted to the given module subtree.
func RestrictedTo(scope ModulePath) Visibility {
	return Visibility{Kind: VisRestricted, Scope: scope}
}

// String returns a human-readable representation, e.g. "restricted(app/core)".
func (v Visibility) String() string {
	if v.Kind == VisRestricted {
		return fmt.Sprintf("restricted(%s)", v.Scope)
	}

	return v.Kind.String()
}

// Member is a single named field of a declared type. Type is the declared
// type expression as source text and may reference the owner's generic
// parameters by name.
type Member struct {
	Name       string
	Type       string
	Visibility Visibility
	Owner      TypeIdentity
}

// TypeKind represents the kind of a declared type.
type TypeKind int

const (
	// KindRecord - a named-field record (struct); the only kind that can
	// participate in injection.
	KindRecord TypeKind = iota
	// KindOther - any non-record declaration (interface, enum-like, alias).
	KindOther
)

// String returns a human-readable kind name.
func (k TypeKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindOther:
		return "other"
	default:
		return common.UnknownStr
	}
}

// InjectionRequest is a single declared intent "target receives the members
// of source, instantiated with these type arguments". SourceModule+SourceName
// form a lookup key into the registry; the request never owns the source
// declaration.
type InjectionRequest struct {
	// SourceModule is the module path of the source type. Empty means
	// "same module as the target".
	SourceModule ModulePath
	// SourceName is the declared name of the source type.
	SourceName string
	// TypeArgs are concrete type arguments, matched positionally to the
	// source's generic parameters.
	TypeArgs []string
	// Target is the identity of the requesting declaration.
	Target TypeIdentity
}

// SourceKey returns the module+name lookup key for the request's source.
func (r InjectionRequest) SourceKey() string {
	module := r.SourceModule
	if module == "" {
		module = r.Target.Module
	}

	return string(module) + "." + r.SourceName
}

// SourceRef returns a display string for the request's source, including
// type arguments, e.g. "models.Pageable[string]".
func (r InjectionRequest) SourceRef() string {
	ref := r.SourceKey()
	if len(r.TypeArgs) > 0 {
		ref += "[" + strings.Join(r.TypeArgs, ", ") + "]"
	}

	return ref
}

// Key returns a canonical string identifying the request's source and
// arguments. Two requests from the same target with equal keys are literal
// duplicates.
func (r InjectionRequest) Key() string {
	return r.SourceRef()
}

// TypeDeclaration is the immutable description of one declared type as seen
// by the resolution pipeline. Re-registering the same identity is an error.
type TypeDeclaration struct {
	ID   TypeIdentity
	Kind TypeKind
	// Members are the type's own members, in declaration order.
	Members []Member
	// GenericParams are the names of the type's generic parameters; the
	// length must equal ID.Arity.
	GenericParams []string
	// Injectable marks the type as eligible to serve as an injection source.
	Injectable bool
	// Requests are the type's injection requests, in declaration order.
	Requests []InjectionRequest
}

// Module returns the declaring module path.
func (d *TypeDeclaration) Module() ModulePath {
	return d.ID.Module
}

// OwnMember returns the declaration's own member with the given name, if any.
func (d *TypeDeclaration) OwnMember(name string) (Member, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}
