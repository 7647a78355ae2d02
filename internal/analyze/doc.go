// Package analyze discovers injection declarations in Go source.
//
// It loads packages with golang.org/x/tools/go/packages and scans struct
// type declarations for directive comments:
//
//	//injectgen:injectable
//	//injectgen:inject models.Base
//	//injectgen:inject Pageable[string]
//
// Field visibility maps exported→public and unexported→private; a struct tag
// `inject:"scope=module/path"` restricts a field to a module subtree, and
// `inject:"-"` excludes it from injection entirely.
package analyze
