package manifest

import (
	"errors"
	"fmt"

	"golang.org/x/mod/module"

	"injectgen/internal/decl"
	"injectgen/internal/diagnostic"
	"injectgen/internal/registry"
)

// Manifest-specific diagnostic codes.
const (
	codeInvalidModulePath = "invalid_module_path"
	codeInvalidVisibility = "invalid_visibility"
	codeInvalidKind       = "invalid_kind"
	codeInvalidMember     = "invalid_member"
	codeInvalidSourceRef  = "invalid_source_ref"
	codeRegisterFailed    = "register_failed"
)

// Build converts the manifest into type declarations and registers them.
// Structural problems (bad module paths, unknown visibility, registration
// conflicts) are reported as diagnostics; types that convert cleanly are
// registered even when sibling types fail.
func Build(mf *File, reg *registry.Registry) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for i := range mf.Types {
		t := &mf.Types[i]

		d, ok := buildDecl(t, &diags)
		if !ok {
			continue
		}

		if err := reg.Register(d); err != nil {
			diags.AddError(registerCode(err), err.Error(), d.ID.String(), "")
		}
	}

	return diags
}

// buildDecl converts one manifest type into a declaration, reporting problems
// against the type's identity string. Returns false when the declaration is
// too malformed to register.
func buildDecl(t *Type, diags *diagnostic.Diagnostics) (*decl.TypeDeclaration, bool) {
	id := decl.TypeIdentity{
		Module: decl.ModulePath(t.Module),
		Name:   t.Name,
		Arity:  len(t.Params),
	}
	target := id.String()

	ok := true

	if t.Name == "" {
		diags.AddError(codeInvalidMember, "type declaration is missing a name", target, "")
		ok = false
	}

	if err := module.CheckImportPath(t.Module); err != nil {
		diags.AddError(codeInvalidModulePath,
			fmt.Sprintf("invalid module path %q: %v", t.Module, err), target, "")

		ok = false
	}

	kind, err := parseKind(t.Kind)
	if err != nil {
		diags.AddError(codeInvalidKind, err.Error(), target, "")

		ok = false
	}

	members := make([]decl.Member, 0, len(t.Members))

	for _, m := range t.Members {
		if m.Name == "" || m.Type == "" {
			diags.AddError(codeInvalidMember,
				fmt.Sprintf("member of %s needs both a name and a type", target), target, m.Name)

			ok = false

			continue
		}

		vis, err := parseVisibility(m)
		if err != nil {
			diags.AddError(codeInvalidVisibility, err.Error(), target, m.Name)

			ok = false

			continue
		}

		members = append(members, decl.Member{
			Name:       m.Name,
			Type:       m.Type,
			Visibility: vis,
			Owner:      id,
		})
	}

	requests := make([]decl.InjectionRequest, 0, len(t.Inject))

	for _, inj := range t.Inject {
		ref, err := decl.ParseSourceRef(inj.Source)
		if err != nil {
			diags.AddError(codeInvalidSourceRef, err.Error(), target, "")

			ok = false

			continue
		}

		if len(ref.Args) > 0 && len(inj.Args) > 0 {
			diags.AddError(codeInvalidSourceRef,
				fmt.Sprintf("injection of %q supplies type arguments both inline and via args", inj.Source),
				target, "")

			ok = false

			continue
		}

		args := ref.Args
		if len(args) == 0 {
			args = inj.Args
		}

		requests = append(requests, decl.InjectionRequest{
			SourceModule: ref.Module,
			SourceName:   ref.Name,
			TypeArgs:     args,
			Target:       id,
		})
	}

	if !ok {
		return nil, false
	}

	return &decl.TypeDeclaration{
		ID:            id,
		Kind:          kind,
		Members:       members,
		GenericParams: t.Params,
		Injectable:    t.Injectable,
		Requests:      requests,
	}, true
}

func parseKind(kind string) (decl.TypeKind, error) {
	switch kind {
	case "record", "":
		return decl.KindRecord, nil
	case "other":
		return decl.KindOther, nil
	default:
		return decl.KindOther, fmt.Errorf("unknown type kind %q (want record or other)", kind)
	}
}

func parseVisibility(m Member) (decl.Visibility, error) {
	switch m.Visibility {
	case "public", "":
		return decl.Public(), nil
	case "private":
		return decl.Private(), nil
	case "restricted":
		if m.Scope == "" {
			return decl.Visibility{}, fmt.Errorf("restricted member %q needs a scope", m.Name)
		}

		if err := module.CheckImportPath(m.Scope); err != nil {
			return decl.Visibility{}, fmt.Errorf("restricted member %q has invalid scope %q: %v", m.Name, m.Scope, err)
		}

		return decl.RestrictedTo(decl.ModulePath(m.Scope)), nil
	default:
		return decl.Visibility{}, fmt.Errorf("unknown visibility %q for member %q (want public, private, or restricted)",
			m.Visibility, m.Name)
	}
}

// registerCode maps registry errors onto the diagnostic taxonomy.
func registerCode(err error) string {
	switch {
	case errors.Is(err, registry.ErrDuplicateDeclaration):
		return diagnostic.CodeDuplicateDeclaration
	case errors.Is(err, registry.ErrInvalidTargetKind):
		return diagnostic.CodeInvalidTargetKind
	default:
		return codeRegisterFailed
	}
}
