package boundary

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/basicinsect/dagflow/internal/telemetry"
	"github.com/basicinsect/dagflow/internal/telemetry/logging"
	"github.com/basicinsect/dagflow/pkg/config"
	"github.com/basicinsect/dagflow/pkg/executor"
	"github.com/basicinsect/dagflow/pkg/graph"
	"github.com/basicinsect/dagflow/pkg/observer"
	"github.com/basicinsect/dagflow/pkg/registry"
)

// Handle is an opaque reference to a graph, the boundary's equivalent
// of a C library's opaque pointer. The zero Handle is never valid.
type Handle int64

var (
	handlesMu  sync.RWMutex
	handles    = map[Handle]*graph.Graph{}
	nextHandle Handle
)

// Engine bundles the optional collaborators (config, logger,
// telemetry) that Run hands to the executor. A zero-value Engine is
// valid and uses every collaborator's default/no-op form.
type Engine struct {
	Config    *config.Config
	Logger    *logging.Logger
	Telemetry *telemetry.Provider
	Observer  *observer.Manager
}

// Create allocates a new empty graph bound to the default registry
// and returns its handle. Create never fails (OutOfMemory is not
// modeled; the Go runtime's allocator failure is not recoverable).
func Create() Handle {
	g := graph.New(registry.Default())
	handlesMu.Lock()
	defer handlesMu.Unlock()
	nextHandle++
	h := nextHandle
	handles[h] = g
	return h
}

// Destroy releases h. Destroy on an unknown or already-destroyed
// handle is a no-op, matching the idempotent-on-null contract of a C
// destroy call.
func Destroy(h Handle) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, h)
}

func lookup(h Handle) (*graph.Graph, bool) {
	handlesMu.RLock()
	defer handlesMu.RUnlock()
	g, ok := handles[h]
	return g, ok
}

func fail(c Code, err error) Code {
	if err != nil {
		setLastError(err.Error())
	} else {
		setLastError(c.String())
	}
	return c
}

// AddNode registers a node of type typeName under id on h.
func AddNode(h Handle, id int32, typeName, label string) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.AddNode(graph.NodeID(id), typeName, label); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// SetParamNumber upserts a Number parameter on node id.
func SetParamNumber(h Handle, id int32, key string, v float64) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.SetParamNumber(graph.NodeID(id), key, v); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// SetParamString upserts a String parameter on node id.
func SetParamString(h Handle, id int32, key string, v string) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.SetParamString(graph.NodeID(id), key, v); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// SetParamBool upserts a Bool parameter on node id.
func SetParamBool(h Handle, id int32, key string, v bool) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.SetParamBool(graph.NodeID(id), key, v); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// Connect appends a data edge.
func Connect(h Handle, fromID int32, fromOut int, toID int32, toIn int) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.Connect(graph.NodeID(fromID), fromOut, graph.NodeID(toID), toIn); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// AddOutput designates an externally observable pin.
func AddOutput(h Handle, id int32, outIdx int) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	if err := g.AddOutput(graph.NodeID(id), outIdx); err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// Run executes h's graph with eng's collaborators (the zero Engine
// uses every default). Run blocks until the graph completes, fails,
// or its configured execution timeout elapses.
func Run(h Handle, eng Engine) Code {
	g, ok := lookup(h)
	if !ok {
		return fail(CodeInvalidHandle, nil)
	}
	_, err := executor.Run(context.Background(), g, eng.Config, eng.Logger, eng.Telemetry, eng.Observer)
	if err != nil {
		return fail(codeFromError(err), err)
	}
	return OK
}

// GetOutputCount reports how many output pins h's graph declared.
func GetOutputCount(h Handle) (int, Code) {
	g, ok := lookup(h)
	if !ok {
		return 0, fail(CodeInvalidHandle, nil)
	}
	return g.GetOutputCount(), OK
}

// GetOutputType reports the type tag of the pin at index, as its wire
// name ("number"|"string"|"bool").
func GetOutputType(h Handle, index int) (string, Code) {
	g, ok := lookup(h)
	if !ok {
		return "", fail(CodeInvalidHandle, nil)
	}
	tag, err := g.GetOutputType(index)
	if err != nil {
		return "", fail(codeFromError(err), err)
	}
	return tag.String(), OK
}

// GetOutputNumber reads the Number value at the pin at index.
func GetOutputNumber(h Handle, index int) (float64, Code) {
	g, ok := lookup(h)
	if !ok {
		return 0, fail(CodeInvalidHandle, nil)
	}
	v, err := g.GetOutputNumber(index)
	if err != nil {
		return 0, fail(codeFromError(err), err)
	}
	return v, OK
}

// GetOutputString reads the String value at the pin at index.
func GetOutputString(h Handle, index int) (string, Code) {
	g, ok := lookup(h)
	if !ok {
		return "", fail(CodeInvalidHandle, nil)
	}
	v, err := g.GetOutputString(index)
	if err != nil {
		return "", fail(codeFromError(err), err)
	}
	return v, OK
}

// GetOutputBool reads the Bool value at the pin at index.
func GetOutputBool(h Handle, index int) (bool, Code) {
	g, ok := lookup(h)
	if !ok {
		return false, fail(CodeInvalidHandle, nil)
	}
	v, err := g.GetOutputBool(index)
	if err != nil {
		return false, fail(codeFromError(err), err)
	}
	return v, OK
}

// ListTypes returns a JSON array of every registered type name
// (aliases included), the wire form spec.md §6 assigns to list_types.
func ListTypes() string {
	out, _ := json.Marshal(registry.Default().ListTypes())
	return string(out)
}

// DescribeType returns the JSON object describe_type assigns to name,
// or ("", CodeUnknownType) if name is not registered.
func DescribeType(name string) (string, Code) {
	sig, err := registry.Default().Describe(name)
	if err != nil {
		return "", fail(CodeUnknownType, err)
	}
	out, err := json.Marshal(sig)
	if err != nil {
		return "", fail(CodeComputeError, err)
	}
	return string(out), OK
}
