package decl

import (
	"fmt"
	"strings"
)

// SourceRef is a parsed injection source reference.
type SourceRef struct {
	// Module path, empty when the reference is relative to the target's
	// module.
	Module ModulePath
	// Name of the source type.
	Name string
	// Args are inline type arguments from the bracket suffix.
	Args []string
}

// ParseSourceRef parses "Name", "module/path.Name", or either form with an
// inline "[arg, arg]" type-argument suffix.
func ParseSourceRef(ref string) (SourceRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return SourceRef{}, fmt.Errorf("empty source reference")
	}

	var args []string

	if idx := strings.IndexByte(ref, '['); idx >= 0 {
		if !strings.HasSuffix(ref, "]") {
			return SourceRef{}, fmt.Errorf("invalid source reference %q: unclosed type argument list", ref)
		}

		var err error

		args, err = splitTypeArgs(ref[idx+1 : len(ref)-1])
		if err != nil {
			return SourceRef{}, fmt.Errorf("invalid source reference %q: %w", ref, err)
		}

		ref = ref[:idx]
	}

	module, name := "", ref
	if idx := strings.LastIndexByte(ref, '.'); idx >= 0 {
		module, name = ref[:idx], ref[idx+1:]
	}

	if name == "" || strings.ContainsAny(name, "/ ") {
		return SourceRef{}, fmt.Errorf("invalid source reference %q: bad type name %q", ref, name)
	}

	return SourceRef{Module: ModulePath(module), Name: name, Args: args}, nil
}

// splitTypeArgs splits a comma-separated type argument list, respecting
// brackets so arguments like "Pair[int, string]" stay intact.
func splitTypeArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var (
		args  []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets in type arguments %q", s)
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in type arguments %q", s)
	}

	args = append(args, strings.TrimSpace(s[start:]))

	for _, a := range args {
		if a == "" {
			return nil, fmt.Errorf("empty type argument in %q", s)
		}
	}

	return args, nil
}
