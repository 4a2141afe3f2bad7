// Package capture wraps the external screen-capture-and-encode backend.
//
// The controller consumes the Backend interface and never observes the
// backend's internal concurrency: Initialize probes the encoder stack once at
// process start, Start launches a capture with a snapshot of the session
// configuration, Stop ends it, and Release tears everything down and is safe
// to call even when Initialize never succeeded. The production implementation
// shells out to ffmpeg and hands frames to the NVENC hardware encoders; tests
// swap in fakes to exercise controller behaviour without a GPU.
package capture
