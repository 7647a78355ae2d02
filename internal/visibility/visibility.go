// Package visibility decides whether a member may be read from a given
// module. It is a pure predicate over the declaration model; all policy
// lives here so the resolver never inspects visibility kinds directly.
package visibility

import (
	"fmt"

	"injectgen/internal/decl"
)

// Accessible reports whether the member can be read from accessingModule.
//
// Policy:
//   - public members are accessible everywhere
//   - private members only from the owning module itself
//   - restricted members from the scope module and its descendants
func Accessible(m decl.Member, accessingModule decl.ModulePath) bool {
	switch m.Visibility.Kind {
	case decl.VisPublic:
		return true
	case decl.VisPrivate:
		return accessingModule == m.Owner.Module
	case decl.VisRestricted:
		return accessingModule.IsWithin(m.Visibility.Scope)
	default:
		return false
	}
}

// DenialReason returns a human-readable explanation for why the member is not
// accessible from accessingModule. Only meaningful when Accessible is false.
func DenialReason(m decl.Member, accessingModule decl.ModulePath) string {
	switch m.Visibility.Kind {
	case decl.VisPrivate:
		return fmt.Sprintf("member %q is private to module %q and was requested from %q",
			m.Name, m.Owner.Module, accessingModule)
	case decl.VisRestricted:
		return fmt.Sprintf("member %q is restricted to module subtree %q and was requested from %q",
			m.Name, m.Visibility.Scope, accessingModule)
	default:
		return fmt.Sprintf("member %q is not accessible from module %q", m.Name, accessingModule)
	}
}
