// Package registry implements the engine's immutable, process-wide
// catalog of node types (spec component B): a name keyed map from
// type-name to signature, seeded once with a fixed set of built-ins.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/basicinsect/dagflow/pkg/values"
)

// ComputeFunc is the total function a NodeType runs over a node's
// current input vector and parameter map. It must not mutate graph
// structure and must be pure: same inputs and params, same outputs.
type ComputeFunc func(inputs []values.Value, params map[string]values.Value) ([]values.Value, error)

// ParamSpec describes one named parameter a node type accepts.
type ParamSpec struct {
	Name        string
	Type        values.Tag
	Default     values.Value
	Enum        []string // non-empty only when Type == TagString
	Description string
}

// Validate checks the invariants spec.md §3 places on a ParamSpec.
func (p ParamSpec) Validate() error {
	if p.Default.Tag() != p.Type {
		return fmt.Errorf("param %q: default tag %s does not match declared type %s", p.Name, p.Default.Tag(), p.Type)
	}
	if len(p.Enum) > 0 {
		if p.Type != values.TagString {
			return fmt.Errorf("param %q: enum is only valid for string params", p.Name)
		}
		if def, _ := p.Default.AsString(); def != "" && !containsString(p.Enum, def) {
			return fmt.Errorf("param %q: default %q is not a member of enum", p.Name, def)
		}
	}
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// NodeType is an immutable record describing one kind of node: its
// arity and port types, its parameter spec, and its compute function.
type NodeType struct {
	Name        string
	Inputs      []values.Tag
	Outputs     []values.Tag
	Params      []ParamSpec
	Version     string
	Description string
	Compute     ComputeFunc
}

// IsConditional reports whether this type is the distinguished
// conditional-branching node type (currently only "If").
func (nt *NodeType) IsConditional() bool {
	return nt.Name == "If"
}

// Registry is the immutable catalog of known node types. Once built it
// is never mutated, so lookups are contention-free reads.
type Registry struct {
	byName map[string]*NodeType
	alias  map[string]string // alias name -> canonical name
}

// New creates an empty registry. Most callers want Default instead.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*NodeType),
		alias:  make(map[string]string),
	}
}

// Register adds a node type to the registry under its own name.
// Returns an error if the name is already registered.
func (r *Registry) Register(nt *NodeType) error {
	if _, exists := r.byName[nt.Name]; exists {
		return fmt.Errorf("registry: type %q already registered", nt.Name)
	}
	for _, p := range nt.Params {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("registry: type %q: %w", nt.Name, err)
		}
	}
	r.byName[nt.Name] = nt
	return nil
}

// RegisterAlias makes alias resolve to the same NodeType as canonical.
func (r *Registry) RegisterAlias(alias, canonical string) error {
	if _, exists := r.byName[canonical]; !exists {
		return fmt.Errorf("registry: cannot alias %q: canonical type %q not registered", alias, canonical)
	}
	if _, exists := r.byName[alias]; exists {
		return fmt.Errorf("registry: alias %q collides with a registered type", alias)
	}
	r.alias[alias] = canonical
	return nil
}

// Lookup resolves a type name (or alias) to its NodeType.
func (r *Registry) Lookup(name string) (*NodeType, error) {
	if canonical, ok := r.alias[name]; ok {
		name = canonical
	}
	nt, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown type %q", name)
	}
	return nt, nil
}

// ListTypes returns every registered type name (aliases included),
// sorted lexicographically for stable JSON array output.
func (r *Registry) ListTypes() []string {
	names := make([]string, 0, len(r.byName)+len(r.alias))
	for name := range r.byName {
		names = append(names, name)
	}
	for alias := range r.alias {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, lazily built on first
// use and seeded with the fixed built-in set from spec.md §4.B.
// Subsequent calls return the same immutable instance.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
		mustRegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

func mustRegisterBuiltins(r *Registry) {
	for _, nt := range builtins() {
		if err := r.Register(nt); err != nil {
			panic(err)
		}
	}
	if err := r.RegisterAlias("Add", "AddNumber"); err != nil {
		panic(err)
	}
}
