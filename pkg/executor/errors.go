package executor

import "errors"

// Sentinel errors for run-time failures, one per error kind spec.md §7
// assigns to the execution stage.
var (
	ErrCycleDetected = errors.New("executor: graph contains a cycle")
	ErrDanglingEdge  = errors.New("executor: bound input references an output the source did not produce")
	ErrComputeFailed = errors.New("executor: node compute function failed")
)
