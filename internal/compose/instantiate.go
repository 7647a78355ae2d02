package compose

import (
	"fmt"
	"strings"
	"unicode"

	"injectgen/internal/decl"
)

// ArityMismatchError reports an injection site supplying the wrong number of
// type arguments for a generic source.
type ArityMismatchError struct {
	Source   decl.TypeIdentity
	Expected int
	Actual   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s expects %d type argument(s), got %d", e.Source, e.Expected, e.Actual)
}

// Instantiate substitutes the declaration's generic parameters with the given
// positional concrete type arguments and returns the declaration's own
// members with fully concrete types. The original members are not modified.
//
// Substitution is a structural rewrite of parameter tokens; it does not check
// that the concrete types are semantically valid at their use sites. That is
// left to the host compiler once the composed type is emitted.
func Instantiate(d *decl.TypeDeclaration, args []string) ([]decl.Member, error) {
	if len(args) != len(d.GenericParams) {
		return nil, &ArityMismatchError{
			Source:   d.ID,
			Expected: len(d.GenericParams),
			Actual:   len(args),
		}
	}

	subst := substitutionFor(d.GenericParams, args)

	members := make([]decl.Member, len(d.Members))
	for i, m := range d.Members {
		m.Type = substituteTypeExpr(m.Type, subst)
		members[i] = m
	}

	return members, nil
}

// substitutionFor builds the parameter→argument map for one injection site.
// Returns nil when there is nothing to substitute.
func substitutionFor(params, args []string) map[string]string {
	if len(params) == 0 {
		return nil
	}

	subst := make(map[string]string, len(params))
	for i, p := range params {
		subst[p] = args[i]
	}

	return subst
}

// substituteTypeExpr replaces whole identifier tokens of expr that name a
// generic parameter with the corresponding concrete type. Only complete
// tokens are replaced: substituting T does not touch Time or MyT.
func substituteTypeExpr(expr string, subst map[string]string) string {
	if len(subst) == 0 {
		return expr
	}

	var b strings.Builder
	b.Grow(len(expr))

	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]
		if !identStart(r) {
			b.WriteRune(r)
			i++

			continue
		}

		j := i + 1
		for j < len(runes) && identPart(runes[j]) {
			j++
		}

		token := string(runes[i:j])
		if repl, ok := subst[token]; ok {
			b.WriteString(repl)
		} else {
			b.WriteString(token)
		}

		i = j
	}

	return b.String()
}

func identStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func identPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
