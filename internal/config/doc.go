// Package config defines the deployment specification for a dslab workspace
// run, its validation rules, and timeout configuration.
//
// A Config is built from an optional YAML file plus CLI flag overrides,
// validated exactly once, and treated as immutable for the rest of the run.
package config
