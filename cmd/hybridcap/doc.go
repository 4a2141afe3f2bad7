// Package main hosts the hybridcap CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration resolution, logging setup,
// and the capture backend together, then hands the interactive session menu
// to internal/shell. Keep this package lean: new behaviour belongs in the
// internal packages first, surfaced here through dedicated commands or flags.
package main
