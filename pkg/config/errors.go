package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidMaxNodeExecutions = errors.New("invalid max node executions: must be non-negative")
	ErrInvalidMaxWorkers        = errors.New("invalid max workers: must be non-negative")
	ErrInvalidMaxNodes          = errors.New("invalid max nodes: must be non-negative")
	ErrInvalidMaxEdges          = errors.New("invalid max edges: must be non-negative")
)
