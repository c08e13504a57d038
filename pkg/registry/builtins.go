package registry

import (
	"fmt"
	"math"
	"strconv"

	"github.com/basicinsect/dagflow/pkg/values"
)

// builtins returns the fixed minimum set of node types spec.md §4.B
// requires an implementer to reproduce.
func builtins() []*NodeType {
	return []*NodeType{
		numberType(),
		stringType(),
		boolType(),
		addNumberType(),
		multiplyType(),
		clampNumberType(),
		toStringType(),
		concatType(),
		outputNumberType(),
		outputStringType(),
		ifType(),
		mergeType(),
	}
}

func numberType() *NodeType {
	return &NodeType{
		Name:        "Number",
		Inputs:      nil,
		Outputs:     []values.Tag{values.TagNumber},
		Version:     "1.0.0",
		Description: "Emits a constant configured by the value parameter.",
		Params: []ParamSpec{
			{Name: "value", Type: values.TagNumber, Default: values.Number(0), Description: "The constant to emit."},
		},
		Compute: func(_ []values.Value, params map[string]values.Value) ([]values.Value, error) {
			return []values.Value{paramNumber(params, "value", 0)}, nil
		},
	}
}

func stringType() *NodeType {
	return &NodeType{
		Name:        "String",
		Inputs:      nil,
		Outputs:     []values.Tag{values.TagString},
		Version:     "1.0.0",
		Description: "Emits a constant configured by the text parameter.",
		Params: []ParamSpec{
			{Name: "text", Type: values.TagString, Default: values.String(""), Description: "The constant to emit."},
		},
		Compute: func(_ []values.Value, params map[string]values.Value) ([]values.Value, error) {
			return []values.Value{paramString(params, "text", "")}, nil
		},
	}
}

func boolType() *NodeType {
	return &NodeType{
		Name:        "Bool",
		Inputs:      nil,
		Outputs:     []values.Tag{values.TagBool},
		Version:     "1.0.0",
		Description: "Emits a constant configured by the value parameter.",
		Params: []ParamSpec{
			{Name: "value", Type: values.TagBool, Default: values.Bool(false), Description: "The constant to emit."},
		},
		Compute: func(_ []values.Value, params map[string]values.Value) ([]values.Value, error) {
			return []values.Value{paramBool(params, "value", false)}, nil
		},
	}
}

func addNumberType() *NodeType {
	return &NodeType{
		Name:        "AddNumber",
		Inputs:      []values.Tag{values.TagNumber, values.TagNumber},
		Outputs:     []values.Tag{values.TagNumber},
		Version:     "1.0.0",
		Description: "Emits a + b.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			a, b, err := twoNumbers(inputs)
			if err != nil {
				return nil, err
			}
			return []values.Value{values.Number(a + b)}, nil
		},
	}
}

func multiplyType() *NodeType {
	return &NodeType{
		Name:        "Multiply",
		Inputs:      []values.Tag{values.TagNumber, values.TagNumber},
		Outputs:     []values.Tag{values.TagNumber},
		Version:     "1.0.0",
		Description: "Emits a x b.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			a, b, err := twoNumbers(inputs)
			if err != nil {
				return nil, err
			}
			return []values.Value{values.Number(a * b)}, nil
		},
	}
}

func clampNumberType() *NodeType {
	return &NodeType{
		Name:        "ClampNumber",
		Inputs:      []values.Tag{values.TagNumber, values.TagNumber, values.TagNumber},
		Outputs:     []values.Tag{values.TagNumber},
		Version:     "1.0.0",
		Description: "Emits min(max(v,lo),hi). Behavior when lo > hi is not specified.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			if len(inputs) != 3 {
				return nil, fmt.Errorf("ClampNumber expects 3 inputs, got %d", len(inputs))
			}
			v, err := inputs[0].AsNumber()
			if err != nil {
				return nil, err
			}
			lo, err := inputs[1].AsNumber()
			if err != nil {
				return nil, err
			}
			hi, err := inputs[2].AsNumber()
			if err != nil {
				return nil, err
			}
			return []values.Value{values.Number(math.Min(math.Max(v, lo), hi))}, nil
		},
	}
}

func toStringType() *NodeType {
	return &NodeType{
		Name:        "ToString",
		Inputs:      []values.Tag{values.TagNumber},
		Outputs:     []values.Tag{values.TagString},
		Version:     "1.0.0",
		Description: "Formats a number as text.",
		Params: []ParamSpec{
			{
				Name:        "format",
				Type:        values.TagString,
				Default:     values.String("default"),
				Enum:        []string{"default", "fixed", "scientific", "hex"},
				Description: "default: shortest round-trip decimal. hex: truncate to 32-bit signed integer, format as hex.",
			},
		},
		Compute: func(inputs []values.Value, params map[string]values.Value) ([]values.Value, error) {
			if len(inputs) != 1 {
				return nil, fmt.Errorf("ToString expects 1 input, got %d", len(inputs))
			}
			n, err := inputs[0].AsNumber()
			if err != nil {
				return nil, err
			}
			format := paramStringRaw(params, "format", "default")
			var out string
			switch format {
			case "fixed":
				out = strconv.FormatFloat(n, 'f', -1, 64)
			case "scientific":
				out = strconv.FormatFloat(n, 'e', -1, 64)
			case "hex":
				out = fmt.Sprintf("%x", int32(n))
			case "default", "":
				out = strconv.FormatFloat(n, 'g', -1, 64)
			default:
				return nil, fmt.Errorf("ToString: unknown format %q", format)
			}
			return []values.Value{values.String(out)}, nil
		},
	}
}

func concatType() *NodeType {
	return &NodeType{
		Name:        "Concat",
		Inputs:      []values.Tag{values.TagString, values.TagString},
		Outputs:     []values.Tag{values.TagString},
		Version:     "1.0.0",
		Description: "Byte-wise concatenation of two strings.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			if len(inputs) != 2 {
				return nil, fmt.Errorf("Concat expects 2 inputs, got %d", len(inputs))
			}
			a, err := inputs[0].AsString()
			if err != nil {
				return nil, err
			}
			b, err := inputs[1].AsString()
			if err != nil {
				return nil, err
			}
			return []values.Value{values.String(a + b)}, nil
		},
	}
}

func outputNumberType() *NodeType {
	return &NodeType{
		Name:        "OutputNumber",
		Inputs:      []values.Tag{values.TagNumber},
		Outputs:     []values.Tag{values.TagNumber},
		Version:     "1.0.0",
		Description: "Identity; designates an externally observable numeric pin.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			return []values.Value{inputs[0]}, nil
		},
	}
}

func outputStringType() *NodeType {
	return &NodeType{
		Name:        "OutputString",
		Inputs:      []values.Tag{values.TagString},
		Outputs:     []values.Tag{values.TagString},
		Version:     "1.0.0",
		Description: "Identity; designates an externally observable string pin.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			return []values.Value{inputs[0]}, nil
		},
	}
}

func ifType() *NodeType {
	return &NodeType{
		Name:        "If",
		Inputs:      []values.Tag{values.TagBool},
		Outputs:     []values.Tag{values.TagBool, values.TagBool},
		Version:     "1.0.0",
		Description: "Output 0 = input (then-branch gate). Output 1 = negated input (else-branch gate). Downstream data edges from this node's outputs become control edges.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			if len(inputs) != 1 {
				return nil, fmt.Errorf("If expects 1 input, got %d", len(inputs))
			}
			b, err := inputs[0].AsBool()
			if err != nil {
				return nil, err
			}
			return []values.Value{values.Bool(b), values.Bool(!b)}, nil
		},
	}
}

func mergeType() *NodeType {
	return &NodeType{
		Name:    "Merge",
		Inputs:  []values.Tag{values.TagNumber, values.TagNumber},
		Outputs: []values.Tag{values.TagNumber},
		Version: "1.0.0",
		Description: "Emits the first input if it is non-zero, else the second. " +
			"This 'use first if nonzero' encoding cannot distinguish a legitimate " +
			"zero result from an unrun branch; prefer routing with If where possible.",
		Compute: func(inputs []values.Value, _ map[string]values.Value) ([]values.Value, error) {
			a, b, err := twoNumbers(inputs)
			if err != nil {
				return nil, err
			}
			if a != 0 {
				return []values.Value{values.Number(a)}, nil
			}
			return []values.Value{values.Number(b)}, nil
		},
	}
}

func twoNumbers(inputs []values.Value) (float64, float64, error) {
	if len(inputs) != 2 {
		return 0, 0, fmt.Errorf("expected 2 inputs, got %d", len(inputs))
	}
	a, err := inputs[0].AsNumber()
	if err != nil {
		return 0, 0, err
	}
	b, err := inputs[1].AsNumber()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func paramNumber(params map[string]values.Value, key string, fallback float64) values.Value {
	if v, ok := params[key]; ok && v.IsNumber() {
		return v
	}
	return values.Number(fallback)
}

func paramString(params map[string]values.Value, key string, fallback string) values.Value {
	if v, ok := params[key]; ok && v.IsString() {
		return v
	}
	return values.String(fallback)
}

func paramBool(params map[string]values.Value, key string, fallback bool) values.Value {
	if v, ok := params[key]; ok && v.IsBool() {
		return v
	}
	return values.Bool(fallback)
}

func paramStringRaw(params map[string]values.Value, key string, fallback string) string {
	if v, ok := params[key]; ok && v.IsString() {
		s, _ := v.AsString()
		return s
	}
	return fallback
}
