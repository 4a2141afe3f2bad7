// Package history persists a log of completed recordings in SQLite.
//
// Each row captures the parameter snapshot a session ran with plus timing and
// the output file, so operators can audit what was recorded after the fact.
// The store is append-only from the controller's point of view; retention
// pruning and explicit clears are the only deletions.
package history
