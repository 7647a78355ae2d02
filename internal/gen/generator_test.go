package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injectgen/internal/compose"
	"injectgen/internal/decl"
	"injectgen/internal/registry"
)

func buildTestPlan(t *testing.T, decls ...*decl.TypeDeclaration) (*registry.Registry, *compose.Plan) {
	t.Helper()

	reg := registry.New()
	for _, d := range decls {
		require.NoError(t, reg.Register(d))
	}

	plan := compose.NewResolver(reg, compose.DefaultConfig()).ResolveAll()
	require.False(t, plan.Diagnostics.HasErrors(), plan.Diagnostics.String())

	return reg, plan
}

func pub(owner decl.TypeIdentity, name, typ string) decl.Member {
	return decl.Member{Name: name, Type: typ, Visibility: decl.Public(), Owner: owner}
}

func TestGenerator_BasicStruct(t *testing.T) {
	base := decl.TypeIdentity{Module: "injectgen/examples/basic", Name: "Base"}
	doc := decl.TypeIdentity{Module: "injectgen/examples/basic", Name: "Document"}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: base, Kind: decl.KindRecord, Injectable: true,
			Members: []decl.Member{pub(base, "ID", "uint64")},
		},
		&decl.TypeDeclaration{
			ID: doc, Kind: decl.KindRecord,
			Members: []decl.Member{pub(doc, "Title", "string")},
			Requests: []decl.InjectionRequest{{
				SourceName: "Base", Target: doc,
			}},
		},
	)

	files, err := NewGenerator(reg, DefaultConfig()).Generate(plan)
	require.NoError(t, err)

	// Base has no requests of its own, so only Document is emitted.
	require.Len(t, files, 1)
	assert.Equal(t, "basic_document_injected.go", files[0].Filename)

	content := string(files[0].Content)
	assert.Contains(t, content, "// Code generated by injectgen. DO NOT EDIT.")
	assert.Contains(t, content, "package basic")
	assert.Contains(t, content, "type Document struct {")
	assert.Contains(t, content, "Title string")
	assert.Contains(t, content, "ID    uint64 // from injectgen/examples/basic.Base")

	// Own members come before injected ones.
	assert.Less(t,
		indexOf(t, content, "Title"),
		indexOf(t, content, "ID"))
}

func TestGenerator_NoProvenanceComments(t *testing.T) {
	base := decl.TypeIdentity{Module: "app", Name: "Base"}
	doc := decl.TypeIdentity{Module: "app", Name: "Document"}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: base, Kind: decl.KindRecord, Injectable: true,
			Members: []decl.Member{pub(base, "ID", "uint64")},
		},
		&decl.TypeDeclaration{
			ID: doc, Kind: decl.KindRecord,
			Requests: []decl.InjectionRequest{{SourceName: "Base", Target: doc}},
		},
	)

	config := DefaultConfig()
	config.ProvenanceComments = false

	files, err := NewGenerator(reg, config).Generate(plan)
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.NotContains(t, string(files[0].Content), "// from")
}

func TestGenerator_GenericTarget(t *testing.T) {
	pageable := decl.TypeIdentity{Module: "app", Name: "Pageable", Arity: 1}
	results := decl.TypeIdentity{Module: "app", Name: "SearchResults", Arity: 1}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: pageable, Kind: decl.KindRecord, Injectable: true,
			GenericParams: []string{"T"},
			Members:       []decl.Member{pub(pageable, "Data", "[]T")},
		},
		&decl.TypeDeclaration{
			ID: results, Kind: decl.KindRecord,
			GenericParams: []string{"R"},
			Members:       []decl.Member{pub(results, "Query", "string")},
			Requests: []decl.InjectionRequest{{
				SourceName: "Pageable", TypeArgs: []string{"R"}, Target: results,
			}},
		},
	)

	files, err := NewGenerator(reg, DefaultConfig()).Generate(plan)
	require.NoError(t, err)
	require.Len(t, files, 1)

	content := string(files[0].Content)
	assert.Contains(t, content, "type SearchResults[R any] struct {")
	assert.Contains(t, content, "Data")
	assert.Contains(t, content, "[]R")
}

func TestGenerator_CrossModuleImports(t *testing.T) {
	base := decl.TypeIdentity{Module: "app/models", Name: "Base"}
	doc := decl.TypeIdentity{Module: "app/web", Name: "Document"}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: base, Kind: decl.KindRecord, Injectable: true,
			Members: []decl.Member{pub(base, "Meta", "models.Metadata")},
		},
		&decl.TypeDeclaration{
			ID: doc, Kind: decl.KindRecord,
			Requests: []decl.InjectionRequest{{
				SourceModule: "app/models", SourceName: "Base", Target: doc,
			}},
		},
	)

	files, err := NewGenerator(reg, DefaultConfig()).Generate(plan)
	require.NoError(t, err)
	require.Len(t, files, 1)

	content := string(files[0].Content)
	assert.Contains(t, content, "import (")
	assert.Contains(t, content, `"app/models"`)
	assert.Contains(t, content, "Meta models.Metadata")
}

func TestGenerator_NoImportsForPlainTypes(t *testing.T) {
	base := decl.TypeIdentity{Module: "app/models", Name: "Base"}
	doc := decl.TypeIdentity{Module: "app/web", Name: "Document"}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: base, Kind: decl.KindRecord, Injectable: true,
			Members: []decl.Member{pub(base, "ID", "uint64")},
		},
		&decl.TypeDeclaration{
			ID: doc, Kind: decl.KindRecord,
			Requests: []decl.InjectionRequest{{
				SourceModule: "app/models", SourceName: "Base", Target: doc,
			}},
		},
	)

	files, err := NewGenerator(reg, DefaultConfig()).Generate(plan)
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.NotContains(t, string(files[0].Content), "import")
}

func TestGenerator_PackageNameOverride(t *testing.T) {
	base := decl.TypeIdentity{Module: "app", Name: "Base"}
	doc := decl.TypeIdentity{Module: "app", Name: "Document"}

	reg, plan := buildTestPlan(t,
		&decl.TypeDeclaration{
			ID: base, Kind: decl.KindRecord, Injectable: true,
			Members: []decl.Member{pub(base, "ID", "uint64")},
		},
		&decl.TypeDeclaration{
			ID: doc, Kind: decl.KindRecord,
			Requests: []decl.InjectionRequest{{SourceName: "Base", Target: doc}},
		},
	)

	config := DefaultConfig()
	config.PackageName = "injected"

	files, err := NewGenerator(reg, config).Generate(plan)
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Contains(t, string(files[0].Content), "package injected")
}

func TestGenerator_SkipsTargetsWithoutRequests(t *testing.T) {
	plain := decl.TypeIdentity{Module: "app", Name: "Plain"}

	reg, plan := buildTestPlan(t, &decl.TypeDeclaration{
		ID: plain, Kind: decl.KindRecord,
		Members: []decl.Member{pub(plain, "Value", "string")},
	})

	files, err := NewGenerator(reg, DefaultConfig()).Generate(plan)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir() + "/out"

	files := []GeneratedFile{
		{Filename: "a_injected.go", Content: []byte("package a\n")},
		{Filename: "b_injected.go", Content: []byte("package b\n")},
	}

	require.NoError(t, WriteFiles(files, dir))

	for _, f := range files {
		assert.FileExists(t, dir+"/"+f.Filename)
	}
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()

	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "expected %q in generated output", sub)

	return idx
}
