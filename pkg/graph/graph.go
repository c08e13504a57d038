// Package graph implements the graph builder (spec component C) and
// schedule analyzer (spec component D): incremental construction
// operations over a committed node/edge set, plus the indegree,
// fanout, input map, control-edge derivation, and acyclicity proof the
// executor needs to run it.
package graph

import (
	"github.com/basicinsect/dagflow/pkg/registry"
	"github.com/basicinsect/dagflow/pkg/values"
)

// NodeID is the caller-supplied, graph-unique node identifier.
type NodeID int32

// ExecutionState is a node's lifecycle stage within one run.
type ExecutionState int

const (
	StatePending ExecutionState = iota
	StateActive
	StateSkipped
	StateCompleted
)

func (s ExecutionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateSkipped:
		return "skipped"
	case StateCompleted:
		return "completed"
	default:
		return "pending"
	}
}

// Node is an instance of a node type within a graph.
type Node struct {
	ID   NodeID
	Type *registry.NodeType
	Name string

	Params map[string]values.Value

	InputValues  []values.Value
	OutputValues []values.Value

	State ExecutionState
}

// Edge is a typed data connection from one node's output port to
// another's input port.
type Edge struct {
	FromNode NodeID
	FromOut  int
	ToNode   NodeID
	ToIn     int
}

// OutputPin is a caller-ordered external observation point.
type OutputPin struct {
	NodeID NodeID
	OutIdx int
}

// Graph owns the committed nodes, data edges, and output pins of one
// dataflow program. It is single-writer before Run and read-mostly
// during Run; construction methods are not safe for concurrent use on
// the same Graph (spec.md §5, "library re-entrancy").
type Graph struct {
	reg *registry.Registry

	nodes  map[NodeID]*Node
	order  []NodeID // insertion order, used for deterministic iteration (Nodes, kahnSort)
	edges  []Edge
	output []OutputPin

	lastError string
}

// New creates an empty graph bound to reg. Passing a nil registry
// defaults to registry.Default().
func New(reg *registry.Registry) *Graph {
	if reg == nil {
		reg = registry.Default()
	}
	return &Graph{
		reg:   reg,
		nodes: make(map[NodeID]*Node),
	}
}

// Registry returns the registry this graph resolves node types against.
func (g *Graph) Registry() *registry.Registry { return g.reg }

// AddNode registers a new node of the named type under id. The node's
// input slots are pre-sized to len(type.Inputs) with type-appropriate
// zero values, so an isolated node can still be computed.
func (g *Graph) AddNode(id NodeID, typeName string, label string) error {
	if typeName == "" {
		return ErrNullArg
	}
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateID
	}
	nt, err := g.reg.Lookup(typeName)
	if err != nil {
		return ErrUnknownType
	}

	inputs := make([]values.Value, len(nt.Inputs))
	for i, tag := range nt.Inputs {
		inputs[i] = values.Zero(tag)
	}

	n := &Node{
		ID:          id,
		Type:        nt,
		Name:        label,
		Params:      make(map[string]values.Value),
		InputValues: inputs,
		State:       StatePending,
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return nil
}

// SetParamNumber upserts a Number-tagged parameter on node id.
func (g *Graph) SetParamNumber(id NodeID, key string, v float64) error {
	return g.setParam(id, key, values.Number(v))
}

// SetParamString upserts a String-tagged parameter on node id.
func (g *Graph) SetParamString(id NodeID, key string, v string) error {
	return g.setParam(id, key, values.String(v))
}

// SetParamBool upserts a Bool-tagged parameter on node id.
func (g *Graph) SetParamBool(id NodeID, key string, v bool) error {
	return g.setParam(id, key, values.Bool(v))
}

func (g *Graph) setParam(id NodeID, key string, v values.Value) error {
	if key == "" {
		return ErrNullArg
	}
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	// Parameter type-checking is deferred to compute time, so that a
	// compute function sees only the parameter types it actually
	// consumes; unknown keys are tolerated silently.
	n.Params[key] = v
	return nil
}

// Connect appends a data edge from (fromID, fromOut) to (toID, toIn).
// The edge is rejected if either node is unknown, either port index is
// out of range, or the source output tag does not equal the target
// input tag — except when the source is a conditional node (e.g. If):
// per spec.md §3 ("downstream data edges originating here become
// control edges") and §9 ("control is derived, not declared"), such an
// edge is never itself typed data the target computes against — the
// schedule analyzer reclassifies it as a control edge that only gates
// whether the target runs, so its source tag does not have to match
// the target's declared input type.
func (g *Graph) Connect(fromID NodeID, fromOut int, toID NodeID, toIn int) error {
	from, ok := g.nodes[fromID]
	if !ok {
		return ErrUnknownNode
	}
	to, ok := g.nodes[toID]
	if !ok {
		return ErrUnknownNode
	}
	if fromOut < 0 || fromOut >= len(from.Type.Outputs) {
		return ErrPortIndexOutOfRange
	}
	if toIn < 0 || toIn >= len(to.Type.Inputs) {
		return ErrPortIndexOutOfRange
	}
	if !from.Type.IsConditional() && from.Type.Outputs[fromOut] != to.Type.Inputs[toIn] {
		return ErrTypeMismatch
	}
	g.edges = append(g.edges, Edge{FromNode: fromID, FromOut: fromOut, ToNode: toID, ToIn: toIn})
	return nil
}

// AddOutput appends an externally observable pin referencing
// (id, outIdx). Its position in the pin list is the external output
// index get_output_* callers use.
func (g *Graph) AddOutput(id NodeID, outIdx int) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if outIdx < 0 || outIdx >= len(n.Type.Outputs) {
		return ErrPortIndexOutOfRange
	}
	g.output = append(g.output, OutputPin{NodeID: id, OutIdx: outIdx})
	return nil
}

// Node returns the node registered under id, or nil.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns the committed data edges, in connect order.
func (g *Graph) Edges() []Edge { return g.edges }

// OutputPins returns the committed output pins, in add_output order.
func (g *Graph) OutputPins() []OutputPin { return g.output }

// LastError returns the most recently recorded error message for this
// graph handle. A successful call does not clear it.
func (g *Graph) LastError() string { return g.lastError }

// SetLastError records msg as this graph's last-observed error.
func (g *Graph) SetLastError(msg string) { g.lastError = msg }

// ResetForRun clears transient per-run state: every node's inputs go
// back to their pre-seeded zero, outputs are cleared, and execution
// state resets to Pending. The executor calls this once at the start
// of every run, so that a Graph handle can be run repeatedly.
func (g *Graph) ResetForRun() {
	for _, n := range g.nodes {
		for i, tag := range n.Type.Inputs {
			n.InputValues[i] = values.Zero(tag)
		}
		n.OutputValues = nil
		n.State = StatePending
	}
}

// GetOutputCount reports how many output pins were declared.
func (g *Graph) GetOutputCount() int { return len(g.output) }

// GetOutputType reports the type tag of the pin at index.
func (g *Graph) GetOutputType(index int) (values.Tag, error) {
	pin, err := g.pinAt(index)
	if err != nil {
		return 0, err
	}
	n := g.nodes[pin.NodeID]
	return n.Type.Outputs[pin.OutIdx], nil
}

// GetOutputNumber reads the Number value at the pin at index. Returns
// ErrNotComputed if that pin's producer was Skipped or never ran.
func (g *Graph) GetOutputNumber(index int) (float64, error) {
	v, err := g.getOutputValue(index, values.TagNumber)
	if err != nil {
		return 0, err
	}
	return v.AsNumber()
}

// GetOutputString reads the String value at the pin at index.
func (g *Graph) GetOutputString(index int) (string, error) {
	v, err := g.getOutputValue(index, values.TagString)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// GetOutputBool reads the Bool value at the pin at index.
func (g *Graph) GetOutputBool(index int) (bool, error) {
	v, err := g.getOutputValue(index, values.TagBool)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (g *Graph) getOutputValue(index int, want values.Tag) (values.Value, error) {
	pin, err := g.pinAt(index)
	if err != nil {
		return values.Value{}, err
	}
	n := g.nodes[pin.NodeID]
	if n.Type.Outputs[pin.OutIdx] != want {
		return values.Value{}, ErrTypeMismatch
	}
	if n.State != StateCompleted {
		return values.Value{}, ErrNotComputed
	}
	if pin.OutIdx >= len(n.OutputValues) {
		return values.Value{}, ErrNotComputed
	}
	return n.OutputValues[pin.OutIdx], nil
}

func (g *Graph) pinAt(index int) (OutputPin, error) {
	if index < 0 || index >= len(g.output) {
		return OutputPin{}, ErrIndexOutOfRange
	}
	return g.output[index], nil
}
