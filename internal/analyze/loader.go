package analyze

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"injectgen/internal/decl"
	"injectgen/internal/diagnostic"
	"injectgen/internal/registry"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedImports

// Analyzer discovers directive-marked type declarations and registers them.
type Analyzer struct {
	reg *registry.Registry
}

// NewAnalyzer creates an Analyzer that registers into the given registry.
func NewAnalyzer(reg *registry.Registry) *Analyzer {
	return &Analyzer{reg: reg}
}

// LoadPackages loads the specified packages and registers every type that
// carries an injectgen directive. Patterns are standard Go package patterns
// (e.g. "./...", "injectgen/examples/basic"). Declaration-level problems are
// reported as diagnostics; load failures are returned as an error.
func (a *Analyzer) LoadPackages(patterns ...string) (diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return diags, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return diags, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			a.processFile(pkg.PkgPath, pkg.Fset, file, &diags)
		}
	}

	return diags, nil
}

// processFile scans one parsed file for directive-marked type declarations.
func (a *Analyzer) processFile(pkgPath string, fset *token.FileSet, file *ast.File, diags *diagnostic.Diagnostics) {
	for _, d := range file.Decls {
		genDecl, ok := d.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			a.processTypeSpec(pkgPath, fset, genDecl, typeSpec, diags)
		}
	}
}

func (a *Analyzer) processTypeSpec(
	pkgPath string,
	fset *token.FileSet,
	genDecl *ast.GenDecl,
	typeSpec *ast.TypeSpec,
	diags *diagnostic.Diagnostics,
) {
	dirs, problems := parseDirectives(genDecl.Doc, typeSpec.Doc)
	if !dirs.marked() && len(problems) == 0 {
		return
	}

	params := typeParamNames(typeSpec)

	id := decl.TypeIdentity{
		Module: decl.ModulePath(pkgPath),
		Name:   typeSpec.Name.Name,
		Arity:  len(params),
	}

	for _, p := range problems {
		diags.AddError(codeBadDirective, p, id.String(), "")
	}

	if len(problems) > 0 {
		return
	}

	kind := decl.KindOther

	structType, isStruct := typeSpec.Type.(*ast.StructType)
	if isStruct {
		kind = decl.KindRecord
	}

	var members []decl.Member
	if isStruct {
		members = a.structMembers(id, fset, structType, diags)
	}

	requests := make([]decl.InjectionRequest, 0, len(dirs.refs))
	for _, ref := range dirs.refs {
		requests = append(requests, decl.InjectionRequest{
			SourceModule: ref.Module,
			SourceName:   ref.Name,
			TypeArgs:     ref.Args,
			Target:       id,
		})
	}

	err := a.reg.Register(&decl.TypeDeclaration{
		ID:            id,
		Kind:          kind,
		Members:       members,
		GenericParams: params,
		Injectable:    dirs.injectable,
		Requests:      requests,
	})
	if err != nil {
		diags.AddError(registerCode(err), err.Error(), id.String(), "")
	}
}

// structMembers converts struct fields into members in declaration order.
func (a *Analyzer) structMembers(
	id decl.TypeIdentity,
	fset *token.FileSet,
	structType *ast.StructType,
	diags *diagnostic.Diagnostics,
) []decl.Member {
	var members []decl.Member

	for _, field := range structType.Fields.List {
		tag := fieldTag(field)
		if tag.Get("inject") == "-" {
			continue
		}

		typeExpr := exprString(fset, field.Type)

		names := fieldNames(field)
		if len(names) == 0 {
			continue
		}

		for _, name := range names {
			vis, err := fieldVisibility(id, name, tag)
			if err != nil {
				diags.AddError(codeBadScope, err.Error(), id.String(), name)
				continue
			}

			members = append(members, decl.Member{
				Name:       name,
				Type:       typeExpr,
				Visibility: vis,
				Owner:      id,
			})
		}
	}

	return members
}

// Analyzer-specific diagnostic codes.
const (
	codeBadDirective = "bad_directive"
	codeBadScope     = "bad_scope"
)

// fieldVisibility derives a member's visibility from its name and tag.
func fieldVisibility(id decl.TypeIdentity, name string, tag reflect.StructTag) (decl.Visibility, error) {
	if scope, ok := strings.CutPrefix(tag.Get("inject"), "scope="); ok {
		if scope == "" {
			return decl.Visibility{}, fmt.Errorf("field %q: inject scope tag is empty", name)
		}

		return decl.RestrictedTo(decl.ModulePath(scope)), nil
	}

	if v := tag.Get("inject"); v != "" && v != "-" {
		return decl.Visibility{}, fmt.Errorf("field %q: unknown inject tag %q (want \"-\" or \"scope=<path>\")", name, v)
	}

	if ast.IsExported(name) {
		return decl.Public(), nil
	}

	return decl.Private(), nil
}

// fieldNames returns the declared names of a field, including the implicit
// name of an embedded field.
func fieldNames(field *ast.Field) []string {
	if len(field.Names) > 0 {
		names := make([]string, len(field.Names))
		for i, n := range field.Names {
			names[i] = n.Name
		}

		return names
	}

	// Embedded field: the implicit name is the base identifier of the type.
	if name := embeddedName(field.Type); name != "" {
		return []string{name}
	}

	return nil
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}

// fieldTag parses a field's struct tag, if any.
func fieldTag(field *ast.Field) reflect.StructTag {
	if field.Tag == nil {
		return ""
	}

	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return ""
	}

	return reflect.StructTag(raw)
}

// typeParamNames flattens a type spec's parameter list into names.
func typeParamNames(typeSpec *ast.TypeSpec) []string {
	if typeSpec.TypeParams == nil {
		return nil
	}

	var names []string

	for _, field := range typeSpec.TypeParams.List {
		for _, n := range field.Names {
			names = append(names, n.Name)
		}
	}

	return names
}

// exprString renders a type expression back to source text.
func exprString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}

	return buf.String()
}

// registerCode maps registry errors onto the diagnostic taxonomy.
func registerCode(err error) string {
	switch {
	case errors.Is(err, registry.ErrDuplicateDeclaration):
		return diagnostic.CodeDuplicateDeclaration
	case errors.Is(err, registry.ErrInvalidTargetKind):
		return diagnostic.CodeInvalidTargetKind
	default:
		return "register_failed"
	}
}
