package graph

import (
	"errors"
	"testing"
)

// buildDiamond builds Number(1) and Number(2) feeding AddNumber(3)'s two
// inputs, with node 4 = OutputNumber wired from node 3's sum: two
// independent sources joining at a shared consumer.
func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Number", "a")
	mustAdd(t, g, 2, "Number", "b")
	mustAdd(t, g, 3, "AddNumber", "sum")
	mustAdd(t, g, 4, "OutputNumber", "out")

	if err := g.Connect(1, 0, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(2, 0, 3, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(3, 0, 4, 0); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestAnalyzeOrdersSourcesBeforeConsumers(t *testing.T) {
	g := buildDiamond(t)
	sch, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	pos := make(map[NodeID]int, len(sch.Order))
	for i, id := range sch.Order {
		pos[id] = i
	}
	if pos[1] >= pos[3] || pos[2] >= pos[3] {
		t.Fatalf("sources must precede consumer: order=%v", sch.Order)
	}
	if pos[3] >= pos[4] {
		t.Fatalf("sum must precede output: order=%v", sch.Order)
	}
}

func TestAnalyzeComputesIndegreeAndFanout(t *testing.T) {
	g := buildDiamond(t)
	sch, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if sch.Indegree[3] != 2 {
		t.Fatalf("node 3 indegree = %d, want 2", sch.Indegree[3])
	}
	if sch.Indegree[1] != 0 || sch.Indegree[2] != 0 {
		t.Fatal("source nodes should have zero indegree")
	}
	if sch.Fanout[3] != 1 {
		t.Fatalf("node 3 fanout = %d, want 1", sch.Fanout[3])
	}
}

func TestAnalyzeInputMapResolvesPorts(t *testing.T) {
	g := buildDiamond(t)
	sch, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := sch.InputMap[3][0]
	if !ok || e.FromNode != 1 {
		t.Fatalf("expected input 0 of node 3 fed from node 1, got %+v, ok=%v", e, ok)
	}
	e, ok = sch.InputMap[3][1]
	if !ok || e.FromNode != 2 {
		t.Fatalf("expected input 1 of node 3 fed from node 2, got %+v, ok=%v", e, ok)
	}
}

func TestAnalyzeDetectsCycle(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "AddNumber", "")
	mustAdd(t, g, 2, "AddNumber", "")
	if err := g.Connect(1, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	// AddNumber's output is Number, its second input is Number too, so
	// this wiring is legally typed even though it closes a cycle.
	if err := g.Connect(2, 0, 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := Analyze(g); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("got %v, want ErrCycleDetected", err)
	}
}

// TestAnalyzeMarksControlEdgesFromIfOutputs mirrors spec scenario S5's
// wiring: an If's Bool output is Connect-ed straight into AddNumber's
// Number-typed input 0. Analyze must classify that one edge as a
// control edge (keyed on the exact Edge Connect recorded) while leaving
// the AddNumber's other, ordinary Number-sourced edge out of the set,
// and still count the control edge in both Indegree and InputMap — it
// adds no precedence beyond what the edge already implies (spec.md
// §4.D), it is simply not a Compute input.
func TestAnalyzeMarksControlEdgesFromIfOutputs(t *testing.T) {
	g := newTestGraph(t)
	mustAdd(t, g, 1, "Bool", "cond")
	mustAdd(t, g, 2, "If", "gate")
	mustAdd(t, g, 3, "Number", "addend")
	mustAdd(t, g, 4, "AddNumber", "thenBranch")

	if err := g.Connect(1, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(2, 0, 4, 0); err != nil { // If's Bool output -> AddNumber's Number input
		t.Fatal(err)
	}
	if err := g.Connect(3, 0, 4, 1); err != nil { // ordinary data edge, same target node
		t.Fatal(err)
	}

	sch, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(sch.ControlEdges) != 1 {
		t.Fatalf("expected exactly one control edge, got %d", len(sch.ControlEdges))
	}
	for e := range sch.ControlEdges {
		if e.FromNode != 2 || e.ToNode != 4 || e.ToIn != 0 {
			t.Fatalf("unexpected control edge: %+v", e)
		}
	}
	if sch.Indegree[4] != 2 {
		t.Fatalf("expected node 4's indegree to count both edges, got %d", sch.Indegree[4])
	}
	bound, ok := sch.InputMap[4][0]
	if !ok || bound.FromNode != 2 {
		t.Fatalf("expected node 4's input 0 bound to the control edge, got %+v, ok=%v", bound, ok)
	}
}

func TestAnalyzeIsDeterministicAcrossRuns(t *testing.T) {
	g := buildDiamond(t)
	first, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Analyze(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Order) != len(second.Order) {
		t.Fatal("order length mismatch between runs")
	}
	for i := range first.Order {
		if first.Order[i] != second.Order[i] {
			t.Fatalf("schedule not deterministic at %d: %v vs %v", i, first.Order, second.Order)
		}
	}
}
