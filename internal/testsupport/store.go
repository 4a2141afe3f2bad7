package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"hybridcap/internal/config"
	"hybridcap/internal/history"
	"hybridcap/internal/session"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddRecording inserts a synthetic recording row for tests.
func AddRecording(t testing.TB, store *history.Store, startedAt time.Time, duration time.Duration) history.Recording {
	t.Helper()

	rec := history.Recording{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		EndedAt:    startedAt.Add(duration),
		Duration:   duration,
		Config:     session.Default("/tmp/recordings"),
		OutputPath: "/tmp/recordings/capture.mp4",
	}
	if err := store.Add(context.Background(), rec); err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return rec
}
