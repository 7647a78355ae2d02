package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"injectgen/internal/common"
)

// Diagnostic codes emitted by the resolution pipeline.
const (
	// CodeDuplicateDeclaration - the same type identity was registered twice.
	CodeDuplicateDeclaration = "duplicate_declaration"
	// CodeSourceNotInjectable - injection requested from a type that is
	// unknown or never marked injectable.
	CodeSourceNotInjectable = "source_not_injectable"
	// CodeArityMismatch - generic argument count does not match the source's
	// declared parameter count.
	CodeArityMismatch = "arity_mismatch"
	// CodeCircularInjection - the target participates in, or depends on, a
	// circular injection chain.
	CodeCircularInjection = "circular_injection"
	// CodeInaccessibleMember - a source member exists but visibility rules
	// forbid the requesting module from seeing it.
	CodeInaccessibleMember = "inaccessible_member"
	// CodeDuplicateMember - two eligible members collide by name after merge.
	CodeDuplicateMember = "duplicate_member"
	// CodeInvalidTargetKind - injection involves something other than a
	// named-field record type.
	CodeInvalidTargetKind = "invalid_target_kind"
	// CodeDuplicateRequest - a target declares the same injection request
	// (same source, same type arguments) twice.
	CodeDuplicateRequest = "duplicate_request"
)

// Diagnostics holds all diagnostic information from a resolution pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Target identifies which type this relates to (if any).
	Target string
	// Member identifies which member this relates to (if any).
	Member string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, target, member string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Target:   target,
		Member:   member,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, target, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Target:   target,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, target, member string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Target:   target,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// ErrorsFor returns all error diagnostics recorded against the given target.
func (d *Diagnostics) ErrorsFor(target string) []Diagnostic {
	var out []Diagnostic

	for _, e := range d.Errors {
		if e.Target == target {
			out = append(out, e)
		}
	}

	return out
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns all diagnostics, one per line, errors first.
func (d Diagnostics) String() string {
	var parts []string

	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			parts = append(parts, diag.String())
		}
	}

	return strings.Join(parts, "\n")
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Target != "" {
		prefix = append(prefix, "["+d.Target+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
