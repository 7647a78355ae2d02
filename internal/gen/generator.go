package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"injectgen/internal/common"
	"injectgen/internal/compose"
	"injectgen/internal/decl"
	"injectgen/internal/registry"
)

// Config holds configuration for code generation.
type Config struct {
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// PackageName overrides the package clause of generated files. Empty
	// means "use each target's own package name".
	PackageName string
	// ProvenanceComments adds a trailing comment to every injected field
	// naming the source chain it was copied through.
	ProvenanceComments bool
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:          "./generated",
		ProvenanceComments: true,
	}
}

// Generator renders Go code from a resolved plan.
type Generator struct {
	config Config
	reg    *registry.Registry
}

// NewGenerator creates a Generator over the given registry.
func NewGenerator(reg *registry.Registry, config Config) *Generator {
	return &Generator{config: config, reg: reg}
}

// GeneratedFile represents a single generated Go source file.
type GeneratedFile struct {
	// Filename is the file's name, e.g. "basic_document_injected.go".
	Filename string
	// Content is the formatted Go source.
	Content []byte
}

// Generate renders one file per composition whose target actually injects
// members. Failed targets are absent from the plan by construction, so
// emission is naturally suppressed for them.
func (g *Generator) Generate(plan *compose.Plan) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for i := range plan.Compositions {
		comp := &plan.Compositions[i]

		d, ok := g.reg.Lookup(comp.Target)
		if !ok || len(d.Requests) == 0 {
			continue
		}

		file, err := g.generateOne(comp, d)
		if err != nil {
			return files, fmt.Errorf("generating %s: %w", comp.Target, err)
		}

		files = append(files, file)
	}

	return files, nil
}

func (g *Generator) generateOne(comp *compose.ResolvedComposition, d *decl.TypeDeclaration) (GeneratedFile, error) {
	data := templateData{
		PackageName: g.packageName(comp.Target),
		TargetName:  comp.Target.Name,
		TypeParams:  typeParamClause(d.GenericParams),
		Imports:     g.imports(comp),
	}

	for _, m := range comp.Members {
		field := fieldData{
			Name: m.Name,
			Type: m.Type,
		}

		if g.config.ProvenanceComments && m.Injected() {
			field.Comment = "from " + provenanceString(m.Provenance)
		}

		data.Fields = append(data.Fields, field)
	}

	var buf bytes.Buffer
	if err := structTemplate.Execute(&buf, data); err != nil {
		return GeneratedFile{}, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Return the unformatted source so the caller can show what failed.
		return GeneratedFile{Filename: g.filename(comp.Target), Content: buf.Bytes()},
			fmt.Errorf("formatting generated source: %w", err)
	}

	return GeneratedFile{
		Filename: g.filename(comp.Target),
		Content:  formatted,
	}, nil
}

// imports collects the source modules whose package alias is referenced by a
// qualified identifier in some emitted field type. Textual member types
// cannot carry full import information, so this is a best-effort mapping;
// anything it misses surfaces as a compile error in the generated code.
func (g *Generator) imports(comp *compose.ResolvedComposition) []string {
	candidates := make(map[string]string) // alias -> module path

	for _, m := range comp.Members {
		for _, id := range append([]decl.TypeIdentity{m.Owner}, m.Provenance...) {
			if id.Module == "" || id.Module == comp.Target.Module {
				continue
			}

			candidates[common.PkgAlias(string(id.Module))] = string(id.Module)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	used := make(map[string]bool)

	for _, m := range comp.Members {
		for alias := range candidates {
			if strings.Contains(m.Type, alias+".") {
				used[candidates[alias]] = true
			}
		}
	}

	imports := make([]string, 0, len(used))
	for path := range used {
		imports = append(imports, path)
	}

	sort.Strings(imports)

	return imports
}

func (g *Generator) packageName(target decl.TypeIdentity) string {
	if g.config.PackageName != "" {
		return g.config.PackageName
	}

	return common.PkgAlias(string(target.Module))
}

func (g *Generator) filename(target decl.TypeIdentity) string {
	pkg := common.PkgAlias(string(target.Module))
	name := strings.ToLower(target.Name)

	if pkg == "" {
		return name + "_injected.go"
	}

	return fmt.Sprintf("%s_%s_injected.go", pkg, name)
}

// typeParamClause renders a generic target's parameter list. Parameter
// bounds are not modeled, so every parameter is emitted unconstrained.
func typeParamClause(params []string) string {
	if len(params) == 0 {
		return ""
	}

	return "[" + strings.Join(params, ", ") + " any]"
}

func provenanceString(provenance []decl.TypeIdentity) string {
	parts := make([]string, len(provenance))
	for i, id := range provenance {
		parts[i] = id.String()
	}

	return strings.Join(parts, " via ")
}
