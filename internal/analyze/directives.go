package analyze

import (
	"go/ast"
	"strings"

	"injectgen/internal/decl"
)

// Directive prefixes recognized on type declarations.
const (
	directiveInjectable = "injectgen:injectable"
	directiveInject     = "injectgen:inject"
)

// typeDirectives is the parsed directive set of one type declaration.
type typeDirectives struct {
	injectable bool
	refs       []decl.SourceRef
}

// marked reports whether the type carries any injectgen directive and thus
// participates in injection.
func (d typeDirectives) marked() bool {
	return d.injectable || len(d.refs) > 0
}

// parseDirectives scans doc comment groups for injectgen directives.
// Directive comments follow the Go convention: no space after "//". Lines
// that are not directives are ignored; a malformed inject directive is
// returned as an error string alongside the parsed remainder.
func parseDirectives(groups ...*ast.CommentGroup) (typeDirectives, []string) {
	var (
		dirs     typeDirectives
		problems []string
	)

	for _, group := range groups {
		if group == nil {
			continue
		}

		for _, c := range group.List {
			line, ok := strings.CutPrefix(c.Text, "//")
			if !ok {
				continue
			}

			switch {
			case line == directiveInjectable:
				dirs.injectable = true

			case strings.HasPrefix(line, directiveInject+" "):
				ref, err := decl.ParseSourceRef(strings.TrimPrefix(line, directiveInject+" "))
				if err != nil {
					problems = append(problems, err.Error())
					continue
				}

				dirs.refs = append(dirs.refs, ref)

			case line == directiveInject:
				// Bare "//injectgen:inject" should not silently do nothing.
				problems = append(problems, "injectgen:inject needs a source reference")
			}
		}
	}

	return dirs, problems
}
