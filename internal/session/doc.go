// Package session owns the persisted capture session configuration.
//
// Exactly one Configuration record is active per process. The Store is
// the only writer of the on-disk JSON representation; the controller holds the
// single in-memory copy and persists through Save after every successful
// mutation. A missing record is a distinct, fatal condition (setup has not
// run) and is reported separately from a record that exists but cannot be
// parsed.
package session
