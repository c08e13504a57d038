// Package boundary implements the stable, C-style handle API (spec
// components F and G): opaque integer graph handles, small stable
// integer return codes, and a thread-scoped last-error string, so
// that a front-end written in another language or tool can drive the
// engine without linking against its Go types.
package boundary

import (
	"errors"

	"github.com/basicinsect/dagflow/pkg/executor"
	"github.com/basicinsect/dagflow/pkg/graph"
)

// Code is the boundary's stable small integer return code. Zero is
// always success; every other operation-specific error kind from
// spec.md §7 gets one fixed non-zero value that never changes across
// releases, so callers can safely switch on it.
type Code int

const (
	OK Code = iota
	CodeNullArg
	CodeUnknownType
	CodeUnknownNode
	CodeDuplicateID
	CodePortIndexOutOfRange
	CodeTypeMismatch
	CodeIndexOutOfRange
	CodeNotComputed
	CodeCycleDetected
	CodeDanglingEdge
	CodeComputeError
	CodeInvalidHandle
)

// String names a Code for diagnostics; the stable contract is the
// integer value, not this text.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case CodeNullArg:
		return "null_arg"
	case CodeUnknownType:
		return "unknown_type"
	case CodeUnknownNode:
		return "unknown_node"
	case CodeDuplicateID:
		return "duplicate_id"
	case CodePortIndexOutOfRange:
		return "port_index_out_of_range"
	case CodeTypeMismatch:
		return "type_mismatch"
	case CodeIndexOutOfRange:
		return "index_out_of_range"
	case CodeNotComputed:
		return "not_computed"
	case CodeCycleDetected:
		return "cycle_detected"
	case CodeDanglingEdge:
		return "dangling_edge"
	case CodeComputeError:
		return "compute_error"
	case CodeInvalidHandle:
		return "invalid_handle"
	default:
		return "unknown_code"
	}
}

// codeFromError classifies err into its stable Code by matching
// against the sentinel errors pkg/graph and pkg/executor expose. An
// unrecognized error (should not happen for errors produced inside
// this module) maps to CodeComputeError, the closest "something went
// wrong during execution" bucket.
func codeFromError(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, graph.ErrNullArg):
		return CodeNullArg
	case errors.Is(err, graph.ErrUnknownType):
		return CodeUnknownType
	case errors.Is(err, graph.ErrUnknownNode):
		return CodeUnknownNode
	case errors.Is(err, graph.ErrDuplicateID):
		return CodeDuplicateID
	case errors.Is(err, graph.ErrPortIndexOutOfRange):
		return CodePortIndexOutOfRange
	case errors.Is(err, graph.ErrTypeMismatch):
		return CodeTypeMismatch
	case errors.Is(err, graph.ErrIndexOutOfRange):
		return CodeIndexOutOfRange
	case errors.Is(err, graph.ErrNotComputed):
		return CodeNotComputed
	case errors.Is(err, graph.ErrCycleDetected), errors.Is(err, executor.ErrCycleDetected):
		return CodeCycleDetected
	case errors.Is(err, executor.ErrDanglingEdge):
		return CodeDanglingEdge
	case errors.Is(err, executor.ErrComputeFailed):
		return CodeComputeError
	default:
		return CodeComputeError
	}
}
