package capture

import (
	"context"
	"errors"

	"hybridcap/internal/session"
)

// Sentinel errors for backend failures. Initialize failures are fatal at
// process start; start failures leave the controller idle; stop failures are
// reported but never leave the controller stuck in the recording state.
var (
	ErrInitFailed  = errors.New("capture backend initialization failed")
	ErrStartFailed = errors.New("capture start failed")
	ErrStopFailed  = errors.New("capture stop failed")
)

// Backend is the contract the session controller drives. Calls block until
// the backend acknowledges the transition.
type Backend interface {
	// Initialize probes the capture/encode stack. Called exactly once,
	// before any interactive operation is possible.
	Initialize(ctx context.Context) error
	// Start begins a capture parameterized by a snapshot of cfg and
	// returns the output file being written.
	Start(ctx context.Context, cfg session.Configuration) (string, error)
	// Stop ends the running capture.
	Stop(ctx context.Context) error
	// Release tears down all backend resources. Idempotent, and safe to
	// call even if Initialize never succeeded.
	Release()
}
