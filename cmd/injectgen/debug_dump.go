//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"injectgen/internal/compose"
	"injectgen/internal/manifest"
	"injectgen/internal/registry"
)

func main() {
	mf, err := manifest.LoadFile("./examples/manifest/basic.yaml")
	if err != nil {
		fmt.Println("load manifest:", err)
		os.Exit(1)
	}

	reg := registry.New()
	if diags := manifest.Build(mf, reg); diags.HasErrors() {
		fmt.Println("build declarations:")
		spew.Dump(diags.Errors)
		os.Exit(1)
	}

	plan := compose.NewResolver(reg, compose.DefaultConfig()).ResolveAll()

	spew.Dump(plan.Compositions)

	if plan.Diagnostics.HasErrors() {
		spew.Dump(plan.Diagnostics.Errors)
		os.Exit(1)
	}
}
