// Command dagflow-demo builds a handful of small graphs and runs them
// through the engine, printing which nodes ran, which were skipped by
// conditional branch gating, and the resulting output values.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/basicinsect/dagflow/internal/telemetry/logging"
	"github.com/basicinsect/dagflow/pkg/config"
	"github.com/basicinsect/dagflow/pkg/executor"
	"github.com/basicinsect/dagflow/pkg/graph"
	"github.com/basicinsect/dagflow/pkg/observer"
	"github.com/basicinsect/dagflow/pkg/registry"
)

func main() {
	fmt.Println("dagflow conditional-execution demo")
	fmt.Println("===================================")

	ageRoutingDemo()
	nestedConditionDemo()
}

// ageRoutingDemo models a two-way branch: isAdult gates which of two
// arithmetic paths runs, mirroring spec scenario S5's wiring — the
// If's Bool output connects straight into an AddNumber input port and
// becomes a control edge rather than a Compute operand (§3). Each path
// reports through its own output pin, so the skipped path reads back
// as ErrNotComputed rather than being silently merged away.
func ageRoutingDemo() {
	fmt.Println("\nage-based routing")
	for _, isAdult := range []bool{true, false} {
		fmt.Printf("  isAdult=%v:\n", isAdult)

		g := graph.New(registry.Default())
		must(g.AddNode(1, "Bool", ""))
		must(g.SetParamBool(1, "value", isAdult))
		must(g.AddNode(2, "If", ""))
		must(g.Connect(1, 0, 2, 0))

		must(g.AddNode(3, "Number", "")) // adult path score
		must(g.SetParamNumber(3, "value", 100))
		must(g.AddNode(4, "Number", "")) // minor path score
		must(g.SetParamNumber(4, "value", 10))

		must(g.AddNode(5, "AddNumber", "")) // adult path: runs only on If's then-output
		must(g.Connect(2, 0, 5, 0))
		must(g.Connect(3, 0, 5, 1))

		must(g.AddNode(6, "AddNumber", "")) // minor path: runs only on If's else-output
		must(g.Connect(2, 1, 6, 0))
		must(g.Connect(4, 0, 6, 1))

		must(g.AddNode(7, "OutputNumber", ""))
		must(g.Connect(5, 0, 7, 0))
		must(g.AddOutput(7, 0))

		must(g.AddNode(8, "OutputNumber", ""))
		must(g.Connect(6, 0, 8, 0))
		must(g.AddOutput(8, 0))

		runAndReport(g)
	}
}

// nestedConditionDemo combines two independent Ifs into one layered
// decision without gating an If node's own condition input — its
// single Bool input port is already spoken for by its own condition,
// so an outer If cannot also control edge into it (spec.md's control
// edges are derived per data edge; they add no precedence beyond what
// that edge already implies, and an If has nowhere else to receive
// one). Instead the inner If's choice first selects a message via its
// own control edges, then that message feeds an outer-gated node as
// ordinary data — so the outer branch still decides, transitively,
// whether either inner message is ever observable.
func nestedConditionDemo() {
	fmt.Println("\nnested conditions")
	for _, tc := range []struct {
		isAdult, isPreferred bool
	}{
		{true, true},
		{true, false},
		{false, true},
	} {
		fmt.Printf("  isAdult=%v isPreferred=%v:\n", tc.isAdult, tc.isPreferred)

		g := graph.New(registry.Default())
		must(g.AddNode(1, "Bool", ""))
		must(g.SetParamBool(1, "value", tc.isAdult))
		must(g.AddNode(2, "If", "")) // outer: adult vs minor
		must(g.Connect(1, 0, 2, 0))

		must(g.AddNode(3, "Bool", ""))
		must(g.SetParamBool(3, "value", tc.isPreferred))
		must(g.AddNode(4, "If", "")) // inner: preferred vs not, evaluated unconditionally
		must(g.Connect(3, 0, 4, 0))

		must(g.AddNode(5, "String", ""))
		must(g.SetParamString(5, "text", "special offer"))
		must(g.AddNode(6, "String", ""))
		must(g.SetParamString(6, "text", "standard offer"))

		must(g.AddNode(7, "Concat", "")) // selected only when isPreferred
		must(g.Connect(4, 0, 7, 0))
		must(g.Connect(5, 0, 7, 1))
		must(g.AddNode(8, "Concat", "")) // selected only when !isPreferred
		must(g.Connect(4, 1, 8, 0))
		must(g.Connect(6, 0, 8, 1))

		must(g.AddNode(9, "Concat", "")) // adult & preferred
		must(g.Connect(2, 0, 9, 0))
		must(g.Connect(7, 0, 9, 1))
		must(g.AddNode(10, "Concat", "")) // adult & not preferred
		must(g.Connect(2, 0, 10, 0))
		must(g.Connect(8, 0, 10, 1))

		must(g.AddNode(11, "String", ""))
		must(g.SetParamString(11, "text", "minor"))
		must(g.AddNode(12, "Concat", "")) // minor, regardless of preference
		must(g.Connect(2, 1, 12, 0))
		must(g.Connect(11, 0, 12, 1))

		must(g.AddNode(13, "OutputString", ""))
		must(g.Connect(9, 0, 13, 0))
		must(g.AddOutput(13, 0))
		must(g.AddNode(14, "OutputString", ""))
		must(g.Connect(10, 0, 14, 0))
		must(g.AddOutput(14, 0))
		must(g.AddNode(15, "OutputString", ""))
		must(g.Connect(12, 0, 15, 0))
		must(g.AddOutput(15, 0))

		runAndReport(g)
	}
}

func runAndReport(g *graph.Graph) {
	log := logging.New(logging.DefaultConfig())
	mgr := observer.NewManager()
	mgr.Register(observer.NewConsoleObserverWithLogger(noisyLogger{log}))

	res, err := executor.Run(context.Background(), g, config.Development(), log, nil, mgr)
	if err != nil {
		fmt.Printf("    run failed: %v\n", err)
		return
	}

	for _, n := range res.Snapshot {
		fmt.Printf("    node %d (%s): %s\n", n.NodeID, n.TypeName, n.State)
	}

	for i := 0; i < g.GetOutputCount(); i++ {
		tag, err := g.GetOutputType(i)
		if err != nil {
			fmt.Printf("    output[%d]: %v\n", i, err)
			continue
		}
		switch tag.String() {
		case "number":
			v, err := g.GetOutputNumber(i)
			if err != nil {
				fmt.Printf("    output[%d]: %v\n", i, err)
				continue
			}
			fmt.Printf("    output[%d]: %v\n", i, v)
		case "string":
			v, err := g.GetOutputString(i)
			if err != nil {
				fmt.Printf("    output[%d]: %v\n", i, err)
				continue
			}
			fmt.Printf("    output[%d]: %q\n", i, v)
		case "bool":
			v, err := g.GetOutputBool(i)
			if err != nil {
				fmt.Printf("    output[%d]: %v\n", i, err)
				continue
			}
			fmt.Printf("    output[%d]: %v\n", i, v)
		}
	}
}

// noisyLogger adapts the engine's structured logger to observer.Logger
// so ConsoleObserver events land in the same sink as the run's own
// logs, for a single interleaved demo transcript.
type noisyLogger struct {
	log *logging.Logger
}

func (l noisyLogger) Debug(msg string, fields map[string]interface{}) { l.log.Debug(msg, fields) }
func (l noisyLogger) Info(msg string, fields map[string]interface{})  { l.log.Info(msg, fields) }
func (l noisyLogger) Warn(msg string, fields map[string]interface{})  { l.log.Warn(msg, fields) }
func (l noisyLogger) Error(msg string, fields map[string]interface{}) { l.log.Error(msg, fields) }

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
