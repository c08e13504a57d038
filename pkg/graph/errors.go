package graph

import "errors"

// Sentinel errors for graph construction and introspection, one per
// error kind spec.md §7 names for these operations.
var (
	ErrNullArg             = errors.New("graph: required argument was empty")
	ErrDuplicateID         = errors.New("graph: node id already registered")
	ErrUnknownType         = errors.New("graph: unknown node type")
	ErrUnknownNode         = errors.New("graph: unknown node id")
	ErrPortIndexOutOfRange = errors.New("graph: port index out of range")
	ErrTypeMismatch        = errors.New("graph: port type mismatch")
	ErrIndexOutOfRange     = errors.New("graph: output index out of range")
	ErrNotComputed         = errors.New("graph: output pin was not computed")
	ErrCycleDetected       = errors.New("graph: cycle detected")
)
