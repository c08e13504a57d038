// Package executor implements the parallel executor (spec component
// E): one task per node over a bounded worker pool, wired with
// data-precedence edges derived by pkg/graph's schedule analyzer,
// honoring conditional branch gating and first-failure-wins
// cancellation.
package executor
