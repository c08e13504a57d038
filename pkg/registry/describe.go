package registry

import "github.com/basicinsect/dagflow/pkg/values"

// ParamSignature is the JSON-serializable shape of one ParamSpec,
// matching the "params" entries in spec.md §6's describe_type schema.
type ParamSignature struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
	Enum        []string    `json:"enum,omitempty"`
}

// TypeSignature is the JSON-serializable shape of describe_type's
// result object.
type TypeSignature struct {
	Name        string           `json:"name"`
	Version     string           `json:"version"`
	Description string           `json:"description"`
	Inputs      []string         `json:"inputs"`
	Outputs     []string         `json:"outputs"`
	Params      []ParamSignature `json:"params"`
}

// Describe resolves name (or alias) and returns its structured
// signature, the form list_types/describe_type serialize at the
// boundary.
func (r *Registry) Describe(name string) (TypeSignature, error) {
	nt, err := r.Lookup(name)
	if err != nil {
		return TypeSignature{}, err
	}
	return describe(nt), nil
}

func describe(nt *NodeType) TypeSignature {
	sig := TypeSignature{
		Name:        nt.Name,
		Version:     nt.Version,
		Description: nt.Description,
		Inputs:      tagsToStrings(nt.Inputs),
		Outputs:     tagsToStrings(nt.Outputs),
		Params:      make([]ParamSignature, 0, len(nt.Params)),
	}
	for _, p := range nt.Params {
		sig.Params = append(sig.Params, ParamSignature{
			Name:        p.Name,
			Type:        p.Type.String(),
			Default:     p.Default.Any(),
			Description: p.Description,
			Enum:        p.Enum,
		})
	}
	return sig
}

func tagsToStrings(tags []values.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
