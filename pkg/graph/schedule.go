package graph

// Schedule is the static analysis of a Graph's edges: per-node indegree
// and fanout, an input map resolving each input port to its feeding
// edge, the subset of edges that gate execution rather than just carry
// data, and a deterministic topological order proving the graph is
// acyclic. It depends only on the shape of the graph, never on a run's
// values, so one Schedule can be reused across repeated Run calls.
type Schedule struct {
	Order    []NodeID
	Indegree map[NodeID]int
	Fanout   map[NodeID]int

	// InputMap resolves a node's input port index to the edge feeding
	// it. An input port with no incoming edge is absent from the inner
	// map and keeps its pre-seeded zero value. If more than one edge
	// targets the same port, the last one connected wins here — but
	// every such edge is still counted once in Indegree, since a node
	// cannot run until all of its incoming edges' sources have
	// completed or been skipped, used or not.
	InputMap map[NodeID]map[int]Edge

	// ControlEdges is the subset of Edges whose source port belongs to
	// a conditional node type (e.g. If's then/else outputs). Control
	// edges are derived here, never declared by the caller (spec.md §3,
	// §4.D, §9): Connect accepts them like any other edge, and Analyze
	// reclassifies them by inspecting the source node's type after the
	// fact. The executor treats a control edge's source value as a
	// precondition for running the edge's target, not as one of its
	// Compute inputs — it does not add precedence beyond what the
	// underlying data edge already implies.
	ControlEdges map[Edge]bool
}

// Analyze computes g's Schedule, returning ErrCycleDetected if the
// edge graph is not a DAG.
func Analyze(g *Graph) (*Schedule, error) {
	sch := &Schedule{
		Indegree:     make(map[NodeID]int, len(g.nodes)),
		Fanout:       make(map[NodeID]int, len(g.nodes)),
		InputMap:     make(map[NodeID]map[int]Edge, len(g.nodes)),
		ControlEdges: make(map[Edge]bool),
	}

	for id := range g.nodes {
		sch.Indegree[id] = 0
		sch.Fanout[id] = 0
	}

	for _, e := range g.edges {
		sch.Indegree[e.ToNode]++
		sch.Fanout[e.FromNode]++

		if sch.InputMap[e.ToNode] == nil {
			sch.InputMap[e.ToNode] = make(map[int]Edge)
		}
		sch.InputMap[e.ToNode][e.ToIn] = e

		if from := g.nodes[e.FromNode]; from != nil && from.Type.IsConditional() {
			sch.ControlEdges[e] = true
		}
	}

	order, err := kahnSort(g, sch.Indegree)
	if err != nil {
		return nil, err
	}
	sch.Order = order
	return sch, nil
}

// kahnSort produces a deterministic topological order over g's nodes:
// repeatedly peel the lowest-ID node with zero remaining indegree. Ties
// break on NodeID so two schedules of the same graph always agree. The
// executor does not run nodes in this order; it keeps its own
// indegree-counted ready queue. Returns ErrCycleDetected if peeling stalls before every node is
// ordered.
func kahnSort(g *Graph, indegree map[NodeID]int) ([]NodeID, error) {
	remaining := make(map[NodeID]int, len(indegree))
	for id, d := range indegree {
		remaining[id] = d
	}

	ready := make([]NodeID, 0, len(g.nodes))
	for _, id := range g.order {
		if remaining[id] == 0 {
			ready = insertSorted(ready, id)
		}
	}

	adj := make(map[NodeID][]Edge, len(g.nodes))
	for _, e := range g.edges {
		adj[e.FromNode] = append(adj[e.FromNode], e)
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, e := range adj[id] {
			remaining[e.ToNode]--
			if remaining[e.ToNode] == 0 {
				ready = insertSorted(ready, e.ToNode)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// insertSorted inserts id into the already-sorted slice ready,
// preserving order. The ready frontier never grows large enough for
// this O(n) insertion to matter against a real sort's constant
// factors.
func insertSorted(ready []NodeID, id NodeID) []NodeID {
	i := len(ready)
	for i > 0 && ready[i-1] > id {
		i--
	}
	ready = append(ready, 0)
	copy(ready[i+1:], ready[i:])
	ready[i] = id
	return ready
}
