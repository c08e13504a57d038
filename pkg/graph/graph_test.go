package graph

import (
	"errors"
	"testing"

	"github.com/basicinsect/dagflow/pkg/registry"
	"github.com/basicinsect/dagflow/pkg/values"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	return New(registry.Default())
}

func TestAddNodeRejectsDuplicateID(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddNode(1, "Number", "a"); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(1, "String", "b"); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("got %v, want ErrDuplicateID", err)
	}
}

func TestAddNodeRejectsUnknownType(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddNode(1, "NoSuchType", ""); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}

func TestAddNodeSeedsZeroInputs(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddNode(1, "AddNumber", ""); err != nil {
		t.Fatal(err)
	}
	n := g.Node(1)
	if len(n.InputValues) != 2 {
		t.Fatalf("expected 2 pre-seeded inputs, got %d", len(n.InputValues))
	}
	got, _ := n.InputValues[0].AsNumber()
	if got != 0 {
		t.Fatalf("expected zero-seeded number, got %v", got)
	}
}

func TestConnectRejectsTypeMismatch(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "String", "")
	mustAdd(t, g, 2, "AddNumber", "")
	if err := g.Connect(1, 0, 2, 0); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v, want ErrTypeMismatch", err)
	}
}

func TestConnectRejectsOutOfRangePort(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Number", "")
	mustAdd(t, g, 2, "AddNumber", "")
	if err := g.Connect(1, 5, 2, 0); !errors.Is(err, ErrPortIndexOutOfRange) {
		t.Fatalf("got %v, want ErrPortIndexOutOfRange", err)
	}
	if err := g.Connect(1, 0, 2, 5); !errors.Is(err, ErrPortIndexOutOfRange) {
		t.Fatalf("got %v, want ErrPortIndexOutOfRange", err)
	}
}

func TestConnectRejectsUnknownNode(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Number", "")
	if err := g.Connect(1, 0, 99, 0); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("got %v, want ErrUnknownNode", err)
	}
}

func TestAddOutputAndGetOutputBeforeComputeFails(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Number", "")
	if err := g.AddOutput(1, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.GetOutputNumber(0); !errors.Is(err, ErrNotComputed) {
		t.Fatalf("got %v, want ErrNotComputed", err)
	}
}

func TestGetOutputWrongTypeFails(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Number", "")
	if err := g.AddOutput(1, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.GetOutputString(0); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v, want ErrTypeMismatch", err)
	}
}

func TestGetOutputIndexOutOfRange(t *testing.T) {
	g := newTestGraph(t)
	if _, err := g.GetOutputNumber(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("got %v, want ErrIndexOutOfRange", err)
	}
}

func TestResetForRunRestoresZeroInputsAndState(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "AddNumber", "")
	n := g.Node(1)
	n.InputValues[0] = values.Number(9)
	n.State = StateCompleted
	n.OutputValues = n.InputValues

	g.ResetForRun()
	if got, _ := n.InputValues[0].AsNumber(); got != 0 {
		t.Fatalf("expected input 0 reset to zero, got %v", got)
	}
	if n.State != StatePending {
		t.Fatalf("expected state reset to Pending, got %v", n.State)
	}
	if n.OutputValues != nil {
		t.Fatal("expected OutputValues cleared")
	}
}

// TestConnectAllowsConditionalSourceTypeMismatch mirrors spec scenario
// S5's literal wiring: an If's Bool output connects straight into a
// Number-typed input port. §3 says such an edge "becomes a control
// edge" rather than Compute input, so Connect must not reject it on
// type grounds even though Bool != Number.
func TestConnectAllowsConditionalSourceTypeMismatch(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "If", "")
	mustAdd(t, g, 2, "AddNumber", "")
	if err := g.Connect(1, 0, 2, 0); err != nil {
		t.Fatalf("Connect from a conditional source: %v", err)
	}
}

// TestConnectStillRejectsOrdinaryTypeMismatch confirms the relaxation
// above is narrowly scoped to conditional sources: two ordinary,
// non-conditional node types still type-check as before.
func TestConnectStillRejectsOrdinaryTypeMismatch(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Bool", "")
	mustAdd(t, g, 2, "AddNumber", "")
	if err := g.Connect(1, 0, 2, 0); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v, want ErrTypeMismatch", err)
	}
}

func mustAdd(t *testing.T, g *Graph, id NodeID, typeName, label string) {
	t.Helper()
	if err := g.AddNode(id, typeName, label); err != nil {
		t.Fatalf("AddNode(%d, %q): %v", id, typeName, err)
	}
}
