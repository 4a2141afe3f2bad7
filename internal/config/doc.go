// Package config loads and validates the application-level configuration.
//
// This is the operator-facing TOML file (directories, logging, capture binary
// override, history retention), distinct from the per-session capture
// parameters owned by package session. Load resolves the file location,
// applies defaults, expands paths, and validates the result.
package config
