package executor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/basicinsect/dagflow/internal/telemetry"
	"github.com/basicinsect/dagflow/internal/telemetry/logging"
	"github.com/basicinsect/dagflow/pkg/config"
	"github.com/basicinsect/dagflow/pkg/graph"
	"github.com/basicinsect/dagflow/pkg/observer"
)

// NodeSnapshot records one node's terminal state at the end of a run,
// the raw material for the engine's post-run introspection.
type NodeSnapshot struct {
	NodeID   graph.NodeID
	TypeName string
	State    graph.ExecutionState
}

// Result is the outcome of one Run.
type Result struct {
	RunID    string
	Failed   bool
	Message  string
	Snapshot []NodeSnapshot
}

// Run analyzes g's schedule, resets its transient per-run state, and
// executes every node's task over a bounded worker pool honoring
// data-precedence and conditional branch gating. A nil cfg uses
// config.Default(); a nil logger discards output; a nil telemetry
// provider records nothing; a nil observer manager notifies nobody.
// Run is not safe to call concurrently on the same Graph.
func Run(ctx context.Context, g *graph.Graph, cfg *config.Config, logger *logging.Logger, tel *telemetry.Provider, obs *observer.Manager) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Noop()
	}

	runID := uuid.NewString()
	log := logger.WithRunID(runID)
	start := time.Now()

	obs.Notify(ctx, observer.Event{
		Type: observer.EventRunStart, Status: observer.StatusStarted,
		Timestamp: start, RunID: runID,
	})

	sch, err := graph.Analyze(g)
	if err != nil {
		log.Error("schedule analysis failed", map[string]interface{}{"error": err.Error()})
		tel.RecordRun(ctx, runID, time.Since(start), false, len(g.Nodes()))
		obs.Notify(ctx, observer.Event{
			Type: observer.EventRunEnd, Status: observer.StatusFailure,
			Timestamp: time.Now(), RunID: runID, Error: err,
		})
		return &Result{RunID: runID, Failed: true, Message: err.Error()}, fmt.Errorf("%w: %s", ErrCycleDetected, err)
	}

	g.ResetForRun()

	nodes := g.Nodes()
	total := len(nodes)
	if total == 0 {
		return &Result{RunID: runID}, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.MaxExecutionTime)
	defer cancel()

	successors := make(map[graph.NodeID][]graph.Edge)
	for _, e := range g.Edges() {
		successors[e.FromNode] = append(successors[e.FromNode], e)
	}

	remaining := make(map[graph.NodeID]*int32, len(sch.Indegree))
	ready := make(chan graph.NodeID, total)
	for id, d := range sch.Indegree {
		v := int32(d)
		remaining[id] = &v
		if d == 0 {
			ready <- id
		}
	}

	var failedFlag int32
	var errMu sync.Mutex
	var runErr error
	var completed int32

	workers := cfg.Workers()
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case id, ok := <-ready:
					if !ok {
						return
					}
					runTask(runCtx, g, sch, id, &failedFlag, &errMu, &runErr, log, tel, obs, runID)

					for _, e := range successors[id] {
						if atomic.AddInt32(remaining[e.ToNode], -1) == 0 {
							ready <- e.ToNode
						}
					}
					if atomic.AddInt32(&completed, 1) == int32(total) {
						close(ready)
					}
				case <-runCtx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()

	res := &Result{RunID: runID, Snapshot: snapshot(nodes)}

	if atomic.LoadInt32(&failedFlag) != 0 {
		res.Failed = true
		res.Message = runErr.Error()
		log.Error("run failed", map[string]interface{}{"message": runErr.Error()})
		tel.RecordRun(ctx, runID, time.Since(start), false, total)
		obs.Notify(ctx, observer.Event{
			Type: observer.EventRunEnd, Status: observer.StatusFailure,
			Timestamp: time.Now(), RunID: runID, ElapsedTime: time.Since(start), Error: runErr,
		})
		return res, runErr
	}
	if runCtx.Err() != nil {
		res.Failed = true
		res.Message = runCtx.Err().Error()
		log.Error("run timed out", map[string]interface{}{"error": runCtx.Err().Error()})
		tel.RecordRun(ctx, runID, time.Since(start), false, total)
		obs.Notify(ctx, observer.Event{
			Type: observer.EventRunEnd, Status: observer.StatusFailure,
			Timestamp: time.Now(), RunID: runID, ElapsedTime: time.Since(start), Error: runCtx.Err(),
		})
		return res, runCtx.Err()
	}

	log.Info("run completed", map[string]interface{}{"nodes": total})
	tel.RecordRun(ctx, runID, time.Since(start), true, total)
	obs.Notify(ctx, observer.Event{
		Type: observer.EventRunEnd, Status: observer.StatusSuccess,
		Timestamp: time.Now(), RunID: runID, ElapsedTime: time.Since(start),
	})
	return res, nil
}

// runTask executes the per-node task semantics: cooperative
// cancellation, conditional gating, input pulling with Skipped
// propagation, compute invocation, and first-failure-wins.
func runTask(
	ctx context.Context,
	g *graph.Graph,
	sch *graph.Schedule,
	id graph.NodeID,
	failed *int32,
	errMu *sync.Mutex,
	runErr *error,
	log *logging.Logger,
	tel *telemetry.Provider,
	obs *observer.Manager,
	runID string,
) {
	if atomic.LoadInt32(failed) != 0 {
		return
	}
	n := g.Node(id)
	start := time.Now()
	notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeStart, observer.StatusStarted, start, nil)

	if gated, ifNode, requiredCondition := gatingSource(g, sch, id); gated {
		ifN := g.Node(ifNode)
		if len(ifN.OutputValues) == 0 {
			n.State = graph.StateSkipped
			tel.RecordNode(ctx, n.Type.Name, time.Since(start), "skipped")
			notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeSkipped, observer.StatusSkipped, start, nil)
			return
		}
		thenValue, _ := ifN.OutputValues[0].AsBool()
		if requiredCondition != thenValue {
			n.State = graph.StateSkipped
			tel.RecordNode(ctx, n.Type.Name, time.Since(start), "skipped")
			notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeSkipped, observer.StatusSkipped, start, nil)
			return
		}
	}

	n.State = graph.StateActive

	for i := range n.InputValues {
		e, bound := sch.InputMap[id][i]
		if !bound {
			continue
		}
		if sch.ControlEdges[e] {
			// A control edge's source value already decided whether n
			// runs at all (see the gating check above); it is never
			// copied into n's Compute inputs (spec.md §9, "control is
			// derived, not declared").
			continue
		}
		src := g.Node(e.FromNode)
		if src.State == graph.StateSkipped {
			n.State = graph.StateSkipped
			tel.RecordNode(ctx, n.Type.Name, time.Since(start), "skipped")
			notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeSkipped, observer.StatusSkipped, start, nil)
			return
		}
		if e.FromOut >= len(src.OutputValues) {
			err := fmt.Errorf("%w: %s: dangling edge from node %d output %d", ErrDanglingEdge, n.Type.Name, e.FromNode, e.FromOut)
			recordFailure(failed, errMu, runErr, err)
			tel.RecordNode(ctx, n.Type.Name, time.Since(start), "failed")
			notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeFailure, observer.StatusFailure, start, err)
			return
		}
		n.InputValues[i] = src.OutputValues[e.FromOut]
	}

	out, err := n.Type.Compute(n.InputValues, n.Params)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s compute failed: %v", ErrComputeFailed, n.Type.Name, err)
		recordFailure(failed, errMu, runErr, wrapped)
		tel.RecordNode(ctx, n.Type.Name, time.Since(start), "failed")
		notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeFailure, observer.StatusFailure, start, wrapped)
		return
	}
	n.OutputValues = out
	n.State = graph.StateCompleted
	log.Debug("node completed", map[string]interface{}{"node_id": int32(id), "node_type": n.Type.Name})
	tel.RecordNode(ctx, n.Type.Name, time.Since(start), "completed")
	notifyNode(obs, ctx, runID, id, n.Type.Name, observer.EventNodeSuccess, observer.StatusSuccess, start, nil)
}

func notifyNode(
	obs *observer.Manager,
	ctx context.Context,
	runID string,
	id graph.NodeID,
	typeName string,
	evt observer.EventType,
	status observer.ExecutionStatus,
	start time.Time,
	err error,
) {
	obs.Notify(ctx, observer.Event{
		Type: evt, Status: status, Timestamp: time.Now(),
		RunID: runID, NodeID: strconv.FormatInt(int64(id), 10), NodeType: typeName,
		StartTime: start, ElapsedTime: time.Since(start), Error: err,
	})
}

// gatingSource reports whether id is gated, and if so by which
// conditional output: the first input slot (in slot order) bound to a
// conditional node's output gates it, per spec.md §3's control-edge
// derivation. requiredCondition is true when the gating edge leaves the
// conditional's output 0 (the then-branch gate).
func gatingSource(g *graph.Graph, sch *graph.Schedule, id graph.NodeID) (gated bool, ifNode graph.NodeID, requiredCondition bool) {
	n := g.Node(id)
	for i := range n.InputValues {
		e, bound := sch.InputMap[id][i]
		if !bound {
			continue
		}
		src := g.Node(e.FromNode)
		if src.Type.IsConditional() {
			return true, e.FromNode, e.FromOut == 0
		}
	}
	return false, 0, false
}

func recordFailure(failed *int32, mu *sync.Mutex, slot *error, err error) {
	mu.Lock()
	defer mu.Unlock()
	if atomic.LoadInt32(failed) == 0 {
		*slot = err
		atomic.StoreInt32(failed, 1)
	}
}

func snapshot(nodes []*graph.Node) []NodeSnapshot {
	out := make([]NodeSnapshot, len(nodes))
	for i, n := range nodes {
		out[i] = NodeSnapshot{NodeID: n.ID, TypeName: n.Type.Name, State: n.State}
	}
	return out
}
