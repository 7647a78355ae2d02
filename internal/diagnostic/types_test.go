package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndQuery(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Error())

	d.AddWarning(CodeInaccessibleMember, "member is private", "app.Document", "id")
	assert.True(t, d.IsValid(), "warnings do not invalidate")

	d.AddError(CodeDuplicateMember, "duplicate member", "app.Document", "ID")
	d.AddError(CodeCircularInjection, "circular chain", "app.X", "")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	require.Error(t, d.Error())

	assert.Equal(t, SeverityError, d.Errors[0].Severity)
	assert.Equal(t, SeverityWarning, d.Warnings[0].Severity)
}

func TestDiagnostics_ErrorsFor(t *testing.T) {
	var d Diagnostics

	d.AddError(CodeDuplicateMember, "first", "app.X", "")
	d.AddError(CodeArityMismatch, "second", "app.Y", "")
	d.AddError(CodeDuplicateMember, "third", "app.X", "")

	errs := d.ErrorsFor("app.X")
	require.Len(t, errs, 2)
	assert.Equal(t, "first", errs[0].Message)
	assert.Equal(t, "third", errs[1].Message)

	assert.Empty(t, d.ErrorsFor("app.Z"))
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddError(CodeSourceNotInjectable, "a", "app.X", "")
	b.AddError(CodeInvalidTargetKind, "b", "app.Y", "")
	b.AddInfo("note", "c", "", "")

	a.Merge(b)

	require.Len(t, a.Errors, 2)
	assert.Equal(t, CodeInvalidTargetKind, a.Errors[1].Code)
	assert.Len(t, a.Infos, 1)
}

func TestDiagnostic_String(t *testing.T) {
	cases := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "full",
			diag: Diagnostic{Code: CodeDuplicateMember, Message: "collision", Target: "app.X", Member: "ID"},
			want: "[app.X] ID: [duplicate_member] collision",
		},
		{
			name: "target only",
			diag: Diagnostic{Code: CodeCircularInjection, Message: "chain", Target: "app.X"},
			want: "[app.X]: [circular_injection] chain",
		},
		{
			name: "bare message",
			diag: Diagnostic{Message: "something"},
			want: "something",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.diag.String())
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(99).String())
}
