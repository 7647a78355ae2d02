package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML declaration manifest.
type File struct {
	// Version of the manifest schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Module is the default module path for types that do not declare their
	// own.
	Module string `yaml:"module,omitempty"`

	// Types is the ordered list of type declarations.
	Types []Type `yaml:"types"`
}

// Type declares one named type.
type Type struct {
	// Name of the type, unique within its module.
	Name string `yaml:"name"`

	// Module path the type is declared in. Defaults to the file's module.
	Module string `yaml:"module,omitempty"`

	// Kind is "record" (default) or "other". Only records participate in
	// injection.
	Kind string `yaml:"kind,omitempty"`

	// Injectable marks the type as eligible to serve as an injection source.
	Injectable bool `yaml:"injectable,omitempty"`

	// Params lists generic parameter names, in order.
	Params []string `yaml:"params,omitempty"`

	// Members lists the type's own members, in order.
	Members []Member `yaml:"members,omitempty"`

	// Inject lists the type's injection requests, in order.
	Inject []Inject `yaml:"inject,omitempty"`
}

// Member declares one named member.
type Member struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Visibility is "public" (default), "private", or "restricted".
	Visibility string `yaml:"visibility,omitempty"`

	// Scope is the module subtree a restricted member is visible in.
	Scope string `yaml:"scope,omitempty"`
}

// Inject declares one injection request. In YAML it is either a scalar
// source reference ("models.Base[string]") or a mapping with explicit
// source/args keys.
type Inject struct {
	// Source references the source type: "Name" for a type in the same
	// module, or "module/path.Name". A bracket suffix supplies type
	// arguments inline.
	Source string `yaml:"source"`

	// Args are concrete type arguments, matched positionally to the source's
	// generic parameters. Inline bracket arguments and this list are
	// mutually exclusive.
	Args []string `yaml:"args,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Inject.
// Accepts either a scalar source reference or a full mapping.
func (i *Inject) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var ref string

		err := node.Decode(&ref)
		if err != nil {
			return err
		}

		i.Source = ref

		return nil

	case yaml.MappingNode:
		// Alias type sheds the UnmarshalYAML method to avoid recursion.
		type plain Inject

		var p plain

		err := node.Decode(&p)
		if err != nil {
			return err
		}

		*i = Inject(p)

		return nil

	default:
		return fmt.Errorf("expected source reference or mapping, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for Inject.
// Outputs the compact scalar form when there are no explicit args.
func (i Inject) MarshalYAML() (any, error) {
	if len(i.Args) == 0 {
		return i.Source, nil
	}

	type plain Inject

	return plain(i), nil
}

