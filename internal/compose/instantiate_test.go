package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injectgen/internal/decl"
)

func genericDecl() *decl.TypeDeclaration {
	id := decl.TypeIdentity{Module: "app/models", Name: "Pageable", Arity: 1}

	return &decl.TypeDeclaration{
		ID:            id,
		Kind:          decl.KindRecord,
		GenericParams: []string{"T"},
		Injectable:    true,
		Members: []decl.Member{
			{Name: "Items", Type: "[]T", Visibility: decl.Public(), Owner: id},
			{Name: "Lookup", Type: "map[T]Time", Visibility: decl.Public(), Owner: id},
			{Name: "Page", Type: "uint32", Visibility: decl.Public(), Owner: id},
		},
	}
}

func TestInstantiate(t *testing.T) {
	d := genericDecl()

	members, err := Instantiate(d, []string{"string"})
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, "[]string", members[0].Type)
	// Whole-token substitution: T is replaced, Time is not.
	assert.Equal(t, "map[string]Time", members[1].Type)
	assert.Equal(t, "uint32", members[2].Type)

	// The declaration itself is untouched.
	assert.Equal(t, "[]T", d.Members[0].Type)
}

func TestInstantiate_ArityMismatch(t *testing.T) {
	d := genericDecl()

	_, err := Instantiate(d, nil)
	require.Error(t, err)

	var mismatch *ArityMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Expected)
	assert.Equal(t, 0, mismatch.Actual)

	_, err = Instantiate(d, []string{"string", "int"})
	assert.Error(t, err)
}

func TestInstantiate_NonGeneric(t *testing.T) {
	id := decl.TypeIdentity{Module: "app", Name: "Base"}
	d := &decl.TypeDeclaration{
		ID:   id,
		Kind: decl.KindRecord,
		Members: []decl.Member{
			{Name: "ID", Type: "uint64", Visibility: decl.Public(), Owner: id},
		},
	}

	members, err := Instantiate(d, nil)
	require.NoError(t, err)
	assert.Equal(t, "uint64", members[0].Type)

	_, err = Instantiate(d, []string{"string"})
	assert.Error(t, err)
}

func TestInstantiate_Idempotent(t *testing.T) {
	d := genericDecl()

	first, err := Instantiate(d, []string{"int"})
	require.NoError(t, err)

	second, err := Instantiate(d, []string{"int"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSubstituteTypeExpr(t *testing.T) {
	subst := map[string]string{"T": "string", "U": "int"}

	tests := []struct {
		expr string
		want string
	}{
		{"T", "string"},
		{"[]T", "[]string"},
		{"map[T]U", "map[string]int"},
		{"Pair[T, U]", "Pair[string, int]"},
		{"*T", "*string"},
		// Identifier boundaries: no partial replacement.
		{"MyT", "MyT"},
		{"TU", "TU"},
		{"T_x", "T_x"},
		{"chan T", "chan string"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, substituteTypeExpr(tt.expr, subst))
		})
	}

	assert.Equal(t, "[]T", substituteTypeExpr("[]T", nil))
}
