// Package main provides the CLI entrypoint for injectgen.
//
// injectgen is a build-time codegen tool that:
//   - Discovers injectable struct declarations from Go directives or a YAML
//     manifest
//   - Resolves which members each target receives (visibility, generics,
//     transitive injection, cycle and duplicate detection)
//   - Emits the fully-materialized struct definitions as generated Go source
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"injectgen/internal/analyze"
	"injectgen/internal/compose"
	"injectgen/internal/diagnostic"
	"injectgen/internal/gen"
	"injectgen/internal/manifest"
	"injectgen/internal/registry"
)

// Options describes the command line surface.
type Options struct {
	Manifest string   `short:"m" long:"manifest" description:"YAML declaration manifest"`
	Packages []string `short:"p" long:"pkg" description:"Go package pattern to scan for directives (repeatable)"`
	Out      string   `short:"o" long:"out" default:"./generated" description:"output directory for generated files"`
	Package  string   `long:"package" description:"package name override for generated files"`
	Parallel bool     `long:"parallel" description:"resolve independent targets concurrently"`
	Workers  int      `long:"workers" default:"0" description:"max concurrent resolutions per level (0 = unlimited)"`

	Args struct {
		Command string `positional-arg-name:"command" choice:"check" choice:"gen" required:"yes" description:"check: resolve and report; gen: resolve and emit"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	options := &Options{}

	_, err := flags.ParseArgs(options, args)
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}

		fmt.Fprintln(os.Stderr, err)

		return 2
	}

	if options.Manifest == "" && len(options.Packages) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: supply --manifest and/or --pkg")
		return 2
	}

	reg := registry.New()

	var diags diagnostic.Diagnostics

	if options.Manifest != "" {
		mf, err := manifest.LoadFile(options.Manifest)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		diags.Merge(manifest.Build(mf, reg))
	}

	if len(options.Packages) > 0 {
		loadDiags, err := analyze.NewAnalyzer(reg).LoadPackages(options.Packages...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		diags.Merge(loadDiags)
	}

	resolver := compose.NewResolver(reg, compose.Config{
		Parallel: options.Parallel,
		Workers:  options.Workers,
	})

	plan := resolver.ResolveAll()
	diags.Merge(plan.Diagnostics)

	report(&diags)

	if options.Args.Command == "gen" && !diags.HasErrors() {
		generator := gen.NewGenerator(reg, gen.Config{
			OutputDir:          options.Out,
			PackageName:        options.Package,
			ProvenanceComments: true,
		})

		files, err := generator.Generate(plan)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		if err := gen.WriteFiles(files, options.Out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("wrote %d file(s) to %s\n", len(files), options.Out)
	}

	if diags.HasErrors() {
		return 1
	}

	return 0
}

// report prints warnings and errors in a stable order.
func report(diags *diagnostic.Diagnostics) {
	for _, w := range diags.Warnings {
		fmt.Fprintln(os.Stderr, "warning: "+w.String())
	}

	for _, e := range diags.Errors {
		fmt.Fprintln(os.Stderr, "error: "+e.String())
	}
}
