package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hybridcap/internal/capture"
	"hybridcap/internal/catalog"
	"hybridcap/internal/deps"
	"hybridcap/internal/history"
	"hybridcap/internal/logging"
	"hybridcap/internal/session"
)

// State of the recording session.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// String renders the state for display.
func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

var (
	// ErrInvalidParameter rejects a mutation outside the legal range. The
	// prior configuration is retained and the caller may retry.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrPresetUnavailable rejects preset edits while the active codec is
	// not hardware-accelerated. The stored preset value is retained.
	ErrPresetUnavailable = errors.New("preset not available for active codec")
	// ErrLowDiskSpace refuses to start a recording when the output
	// directory is below the configured free-space floor.
	ErrLowDiskSpace = errors.New("insufficient free space in output directory")
)

// freeSpace is a seam for tests.
var freeSpace = deps.FreeSpace

// Option configures a Controller.
type Option func(*Controller)

// WithHistory records completed sessions into the given store.
func WithHistory(store *history.Store) Option {
	return func(c *Controller) {
		c.history = store
	}
}

// WithMinFreeSpace sets the free-space floor checked before a recording
// starts. Zero disables the check.
func WithMinFreeSpace(bytes uint64) Option {
	return func(c *Controller) {
		c.minFreeSpace = bytes
	}
}

// Controller is the session state machine. It exclusively owns the transient
// recording session and the in-memory session configuration.
type Controller struct {
	backend capture.Backend
	store   *session.Store
	history *history.Store
	logger  *slog.Logger

	minFreeSpace uint64

	mu        sync.Mutex
	cfg       session.Configuration
	state     State
	startedAt time.Time
	sessionID string
	// snapshot is the configuration the running capture was started with.
	// Edits during a recording land in cfg only.
	snapshot   session.Configuration
	outputPath string
}

// New loads the persisted session configuration and constructs an idle
// controller. A missing record surfaces session.ErrNotFound; callers treat it
// as fatal and direct the operator to setup.
func New(backend capture.Backend, store *session.Store, logger *slog.Logger, opts ...Option) (*Controller, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		backend: backend,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "controller"),
		cfg:     cfg,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StartResult reports the outcome of StartRecording as plain display data.
type StartResult struct {
	AlreadyRecording bool
	OutputPath       string
	SessionID        string
}

// StartRecording starts a capture with a snapshot of the current
// configuration. Calling while already recording is an informational no-op:
// the backend is not invoked a second time and the start timestamp is
// unchanged.
func (c *Controller) StartRecording(ctx context.Context) (StartResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRecording {
		return StartResult{AlreadyRecording: true, OutputPath: c.outputPath, SessionID: c.sessionID}, nil
	}

	if c.minFreeSpace > 0 {
		free, err := freeSpace(c.cfg.OutputPath)
		if err != nil {
			c.logger.Warn("free space check failed", logging.Error(err))
		} else if free < c.minFreeSpace {
			return StartResult{}, fmt.Errorf("%w: %d bytes available", ErrLowDiskSpace, free)
		}
	}

	snapshot := c.cfg
	outputPath, err := c.backend.Start(ctx, snapshot)
	if err != nil {
		// State stays idle; the backend's detail goes to the caller
		// verbatim. No automatic retry.
		return StartResult{}, err
	}

	c.state = StateRecording
	c.startedAt = time.Now()
	c.sessionID = uuid.NewString()
	c.snapshot = snapshot
	c.outputPath = outputPath
	c.logger.Info("recording started",
		logging.String(logging.FieldSessionID, c.sessionID),
		logging.String("output", outputPath),
		logging.String("codec", snapshot.Codec),
		logging.String("resolution", snapshot.Resolution.String()),
		logging.Int("fps", snapshot.FrameRate))
	return StartResult{OutputPath: outputPath, SessionID: c.sessionID}, nil
}

// StopResult reports the outcome of StopRecording as plain display data.
type StopResult struct {
	NotRecording bool
	OutputPath   string
	Duration     time.Duration
}

// StopRecording stops the running capture. The controller returns to idle
// regardless of the backend outcome; a backend stop error is still reported.
// Calling while idle is an informational no-op and does not invoke the
// backend.
func (c *Controller) StopRecording(ctx context.Context) (StopResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked(ctx)
}

func (c *Controller) stopLocked(ctx context.Context) (StopResult, error) {
	if c.state != StateRecording {
		return StopResult{NotRecording: true}, nil
	}

	stopErr := c.backend.Stop(ctx)

	endedAt := time.Now()
	result := StopResult{
		OutputPath: c.outputPath,
		Duration:   endedAt.Sub(c.startedAt),
	}

	rec := history.Recording{
		ID:         c.sessionID,
		StartedAt:  c.startedAt,
		EndedAt:    endedAt,
		Duration:   result.Duration,
		Config:     c.snapshot,
		OutputPath: c.outputPath,
	}
	if stopErr != nil {
		rec.StopError = stopErr.Error()
	}

	// Idle before anything else can fail; a stuck recording state is worse
	// than a lossy stop.
	c.state = StateIdle
	c.startedAt = time.Time{}
	c.sessionID = ""
	c.snapshot = session.Configuration{}
	c.outputPath = ""

	if c.history != nil {
		if err := c.history.Add(ctx, rec); err != nil {
			c.logger.Warn("failed to record session history", logging.Error(err))
		}
	}

	if stopErr != nil {
		c.logger.Warn("backend stop reported error", logging.Error(stopErr))
		return result, stopErr
	}
	c.logger.Info("recording stopped",
		logging.String(logging.FieldSessionID, rec.ID),
		logging.Duration("duration", result.Duration),
		logging.String("output", result.OutputPath))
	return result, nil
}

// Status is a pure read of the session state.
type Status struct {
	State      State
	Elapsed    time.Duration
	OutputPath string
	Config     session.Configuration
}

// QueryStatus reports the current state and, while recording, the elapsed
// time. It never mutates state or persisted configuration.
func (c *Controller) QueryStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{State: c.state, Config: c.cfg}
	if c.state == StateRecording {
		status.Elapsed = time.Since(c.startedAt)
		status.OutputPath = c.outputPath
	}
	return status
}

// CycleResolution advances the resolution to the next catalog entry and
// persists the change. Legal in either state; while recording it applies to
// the next session only.
func (c *Controller) CycleResolution() (catalog.Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := catalog.IndexOf(catalog.Resolutions, c.cfg.Resolution)
	_, next := catalog.Cycle(catalog.Resolutions, idx)
	c.cfg.Resolution = next
	return next, c.persistLocked("resolution", next.String())
}

// CycleCodec advances the codec to the next catalog entry and persists the
// change. The stored preset is retained even when the new codec hides it.
func (c *Controller) CycleCodec() (catalog.Codec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, len(catalog.Codecs))
	for i, codec := range catalog.Codecs {
		names[i] = codec.Name
	}
	idx := catalog.IndexOf(names, c.cfg.Codec)
	nextIdx, nextName := catalog.Cycle(names, idx)
	c.cfg.Codec = nextName
	return catalog.Codecs[nextIdx], c.persistLocked("codec", nextName)
}

// CycleBitrate advances the bitrate to the next catalog entry and persists
// the change.
func (c *Controller) CycleBitrate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := catalog.IndexOf(catalog.Bitrates, c.cfg.Bitrate)
	_, next := catalog.Cycle(catalog.Bitrates, idx)
	c.cfg.Bitrate = next
	return next, c.persistLocked("bitrate", next)
}

// CyclePreset advances the encoder preset. Rejected with ErrPresetUnavailable
// while the active codec is not hardware-accelerated; the stored value stays
// untouched so switching back to a hardware codec restores it.
func (c *Controller) CyclePreset() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.PresetEditable() {
		return "", fmt.Errorf("%w: %s", ErrPresetUnavailable, c.cfg.Codec)
	}
	idx := catalog.IndexOf(catalog.Presets, c.cfg.Preset)
	_, next := catalog.Cycle(catalog.Presets, idx)
	c.cfg.Preset = next
	return next, c.persistLocked("preset", next)
}

// SetFrameRate validates and persists a new frame rate.
func (c *Controller) SetFrameRate(fps int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !catalog.ValidFrameRate(fps) {
		return fmt.Errorf("%w: frame rate %d outside [%d, %d]",
			ErrInvalidParameter, fps, catalog.MinFrameRate, catalog.MaxFrameRate)
	}
	c.cfg.FrameRate = fps
	return c.persistLocked("fps", fmt.Sprintf("%d", fps))
}

// Configuration returns a copy of the active session configuration.
func (c *Controller) Configuration() session.Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Shutdown is the single guaranteed cleanup path. It stops an active
// recording first, then releases backend resources unconditionally, even when
// initialization never fully succeeded.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stopErr error
	if c.state == StateRecording {
		_, stopErr = c.stopLocked(ctx)
	}
	c.backend.Release()
	c.logger.Debug("controller shut down")
	return stopErr
}

// persistLocked saves the mutated configuration. On failure the in-memory
// value is kept: the active session keeps using it, and the divergence from
// disk is surfaced to the caller as a warning rather than rolled back.
func (c *Controller) persistLocked(field, value string) error {
	if err := c.store.Save(c.cfg); err != nil {
		c.logger.Warn("configuration change not persisted",
			logging.String("field", field),
			logging.String("value", value),
			logging.Error(err))
		return err
	}
	c.logger.Info("configuration updated",
		logging.String("field", field),
		logging.String("value", value))
	return nil
}
