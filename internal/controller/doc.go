// Package controller owns the recording session state machine.
//
// A Controller holds the single in-memory copy of the session configuration,
// validates and cycles parameters against the catalogs, persists every
// successful change, and drives the capture backend through start/stop/
// release. Operations are serialized by an internal mutex; one user intent is
// fully processed before the next is accepted. Configuration edits made while
// a recording runs apply to the next session only: the backend is started
// with a snapshot and is never renegotiated mid-stream.
package controller
