package boundary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// planSchema is the fixed JSON Schema a JSON v1 plan document must
// satisfy before this package hands it to the graph builder. It
// enforces structure only — node types, port arities, and value tags
// are still validated by the builder itself, which is the sole
// authority on graph legality.
const planSchema = `{
  "type": "object",
  "required": ["version", "nodes"],
  "properties": {
    "version": { "type": "integer", "enum": [1] },
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id":     { "type": "integer" },
          "type":   { "type": "string" },
          "params": { "type": "object" }
        }
      }
    },
    "edges": {
      "type": "object",
      "properties": {
        "data": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["from", "fromOutput", "to", "toInput"],
            "properties": {
              "from":       { "type": "integer" },
              "fromOutput": { "type": "integer" },
              "to":         { "type": "integer" },
              "toInput":    { "type": "integer" }
            }
          }
        },
        "control": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["if", "output", "target"],
            "properties": {
              "if":     { "type": "integer" },
              "output": { "type": "integer" },
              "target": { "type": "integer" }
            }
          }
        }
      }
    },
    "outputs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["node", "output"],
        "properties": {
          "node":   { "type": "integer" },
          "output": { "type": "integer" }
        }
      }
    }
  }
}`

// PlanNode is one "nodes" entry of a JSON v1 plan.
type PlanNode struct {
	ID     int32                  `json:"id"`
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params"`
}

// PlanDataEdge is one "edges.data" entry of a JSON v1 plan.
type PlanDataEdge struct {
	From       int32 `json:"from"`
	FromOutput int   `json:"fromOutput"`
	To         int32 `json:"to"`
	ToInput    int   `json:"toInput"`
}

// PlanControlEdge is one "edges.control" entry of a JSON v1 plan. The
// field exists only so DecodeJSONPlan can report what a document
// contained; Apply never replays it (spec.md §6: "control edges are
// reserved and not consumed by the core" — control is derived from the
// committed data edges at run time, never declared by a caller).
type PlanControlEdge struct {
	If     int32 `json:"if"`
	Output int   `json:"output"`
	Target int32 `json:"target"`
}

// PlanOutput is one "outputs" entry of a JSON v1 plan.
type PlanOutput struct {
	Node   int32 `json:"node"`
	Output int   `json:"output"`
}

// Plan is the decoded form of a JSON v1 plan document (spec.md §6).
// Unknown top-level keys are ignored by json.Unmarshal, matching the
// format's forward-compatibility rule.
type Plan struct {
	Version int          `json:"version"`
	Nodes   []PlanNode   `json:"nodes"`
	Outputs []PlanOutput `json:"outputs"`
	Edges   struct {
		Data    []PlanDataEdge    `json:"data"`
		Control []PlanControlEdge `json:"control"`
	} `json:"edges"`
}

// DecodeJSONPlan validates data against the fixed plan schema and
// unmarshals it into a Plan. Schema validation happens first so that
// Plan.Apply only ever sees structurally well-formed input; semantic
// legality (unknown types, type mismatches) is still the builder's
// job.
func DecodeJSONPlan(data []byte) (*Plan, error) {
	schemaLoader := gojsonschema.NewStringLoader(planSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("plan: schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("plan: invalid document: %s", strings.Join(msgs, "; "))
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("plan: decode: %w", err)
	}
	if plan.Version != 1 {
		return nil, fmt.Errorf("plan: unsupported version %d", plan.Version)
	}
	return &plan, nil
}

// Apply replays plan's construction operations against h through the
// handle API, in nodes-then-edges-then-outputs order. It stops at the
// first non-OK Code.
func (p *Plan) Apply(h Handle) Code {
	for _, n := range p.Nodes {
		if c := AddNode(h, n.ID, n.Type, ""); c != OK {
			return c
		}
		for key, v := range n.Params {
			if c := setJSONParam(h, n.ID, key, v); c != OK {
				return c
			}
		}
	}
	for _, e := range p.Edges.Data {
		if c := Connect(h, e.From, e.FromOutput, e.To, e.ToInput); c != OK {
			return c
		}
	}
	// p.Edges.Control is intentionally not replayed here; see PlanControlEdge.
	for _, o := range p.Outputs {
		if c := AddOutput(h, o.Node, o.Output); c != OK {
			return c
		}
	}
	return OK
}

func setJSONParam(h Handle, id int32, key string, v interface{}) Code {
	switch val := v.(type) {
	case float64:
		return SetParamNumber(h, id, key, val)
	case string:
		return SetParamString(h, id, key, val)
	case bool:
		return SetParamBool(h, id, key, val)
	default:
		return fail(CodeNullArg, fmt.Errorf("plan: param %q has unsupported JSON type %T", key, v))
	}
}

// ParseTextPlan decodes a textual v0 plan (spec.md §6): line-oriented,
// whitespace-separated, unrecognized line heads are ignored.
//
//	NODES <n>                           (optional, ignored)
//	NODE <id> <type> [key=value ...]     values parse as number if numeric, else string
//	CONNECTION <fromId> <fromOut> <toId> <toIn>
//	OUTPUT <id> <outIdx>
func ParseTextPlan(r io.Reader) (*Plan, error) {
	plan := &Plan{Version: 1}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "NODE":
			if len(fields) < 3 {
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("plan: NODE line: invalid id %q", fields[1])
			}
			n := PlanNode{ID: int32(id), Type: fields[2], Params: map[string]interface{}{}}
			for _, kv := range fields[3:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					continue
				}
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					n.Params[k] = f
				} else {
					n.Params[k] = v
				}
			}
			plan.Nodes = append(plan.Nodes, n)
		case "CONNECTION":
			if len(fields) != 5 {
				continue
			}
			e, err := parseFourInts(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("plan: CONNECTION line: %w", err)
			}
			plan.Edges.Data = append(plan.Edges.Data, PlanDataEdge{
				From: int32(e[0]), FromOutput: e[1], To: int32(e[2]), ToInput: e[3],
			})
		case "OUTPUT":
			if len(fields) != 3 {
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("plan: OUTPUT line: invalid id %q", fields[1])
			}
			idx, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("plan: OUTPUT line: invalid index %q", fields[2])
			}
			plan.Outputs = append(plan.Outputs, PlanOutput{Node: int32(id), Output: idx})
		default:
			// NODES and anything unrecognized is ignored, per the format.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("plan: scan: %w", err)
	}
	return plan, nil
}

func parseFourInts(fields []string) ([4]int, error) {
	var out [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return out, fmt.Errorf("invalid integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}
