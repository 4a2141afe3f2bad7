package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hybridcap/internal/catalog"
	"hybridcap/internal/logging"
	"hybridcap/internal/session"
)

func newStore(t *testing.T) (*session.Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "configuration.json")
	return session.NewStore(path, logging.NewNop()), path
}

func TestLoadMissingRecordReturnsNotFound(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Load()
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMalformedRecordIsDistinctFromMissing(t *testing.T) {
	store, path := newStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	_, err := store.Load()
	if !errors.Is(err, session.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if errors.Is(err, session.ErrNotFound) {
		t.Fatal("malformed record must not classify as not found")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store, path := newStore(t)
	cfg := session.Default(t.TempDir())
	cfg.FrameRate = 60
	cfg.Codec = "hevc_nvenc"

	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", loaded, cfg)
	}
}

func TestLoadToleratesOutOfCatalogValues(t *testing.T) {
	store, path := newStore(t)
	record := []byte(`{"resolution":{"width":1600,"height":900},"fps":48,"codec":"mpeg4","bitrate":"7500k","preset":"","output_path":"/tmp/out"}`)
	if err := os.WriteFile(path, record, 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Resolution != (catalog.Resolution{Width: 1600, Height: 900}) {
		t.Fatalf("unexpected resolution: %s", cfg.Resolution)
	}
	if cfg.PresetEditable() {
		t.Fatal("software codec must not expose preset editing")
	}
}

func TestDefaultMatchesCatalogHeads(t *testing.T) {
	cfg := session.Default("/tmp/recordings")
	if cfg.Resolution != catalog.Resolutions[0] {
		t.Fatalf("unexpected default resolution: %s", cfg.Resolution)
	}
	if cfg.Codec != catalog.Codecs[0].Name {
		t.Fatalf("unexpected default codec: %s", cfg.Codec)
	}
	if !cfg.PresetEditable() {
		t.Fatal("default codec is hardware accelerated, preset must be editable")
	}
}
