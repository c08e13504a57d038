// Package config provides configuration management for the dataflow
// execution engine.
//
// # Overview
//
// Configuration is centralized in a single Config struct with sensible
// defaults, validation, and cloning, following the same shape as the
// rest of the engine's packages: a plain struct, a Default constructor,
// and a Validate method.
//
// # Basic usage
//
//	cfg := config.Default()
//	cfg.MaxWorkers = 4
//	if err := cfg.Validate(); err != nil {
//	    // handle invalid configuration
//	}
package config
