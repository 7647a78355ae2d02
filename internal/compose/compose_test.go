package compose

// Shared fixtures for the compose package tests.

import (
	"testing"

	"github.com/stretchr/testify/require"

	"injectgen/internal/decl"
	"injectgen/internal/registry"
)

func tid(module, name string) decl.TypeIdentity {
	return decl.TypeIdentity{Module: decl.ModulePath(module), Name: name}
}

func pubMember(owner decl.TypeIdentity, name, typ string) decl.Member {
	return decl.Member{Name: name, Type: typ, Visibility: decl.Public(), Owner: owner}
}

func request(target decl.TypeIdentity, sourceModule, sourceName string, args ...string) decl.InjectionRequest {
	return decl.InjectionRequest{
		SourceModule: decl.ModulePath(sourceModule),
		SourceName:   sourceName,
		TypeArgs:     args,
		Target:       target,
	}
}

func newTestRegistry(t *testing.T, decls ...*decl.TypeDeclaration) *registry.Registry {
	t.Helper()

	reg := registry.New()
	for _, d := range decls {
		require.NoError(t, reg.Register(d))
	}

	return reg
}
