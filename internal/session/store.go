package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"hybridcap/internal/logging"
)

// Sentinel errors for the persistence layer. Callers classify failures with
// errors.Is rather than string matching.
var (
	// ErrNotFound means no configuration record exists yet. Fatal at
	// startup: the operator is directed to run `hybridcap config init`.
	ErrNotFound = errors.New("session configuration not found")
	// ErrMalformed means a record exists but could not be parsed.
	ErrMalformed = errors.New("session configuration malformed")
	// ErrPersist means a write to the record failed. The in-memory
	// configuration may now diverge from disk.
	ErrPersist = errors.New("session configuration persist failed")
)

// Store reads and writes the configuration record at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the record at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "session"),
	}
}

// Path returns the location of the on-disk record.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted record. A missing file yields ErrNotFound; a file
// that exists but cannot be parsed yields ErrMalformed.
func (s *Store) Load() (Configuration, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Configuration{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Configuration{}, fmt.Errorf("read configuration record: %w", err)
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	s.logger.Debug("loaded session configuration",
		logging.String("path", s.path),
		logging.String("codec", cfg.Codec),
		logging.String("resolution", cfg.Resolution.String()))
	return cfg, nil
}

// Save overwrites the record atomically via a temp file so a concurrent
// reader never observes a partial write.
func (s *Store) Save(cfg Configuration) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPersist, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrPersist, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write temp file: %v", ErrPersist, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replace record: %v", ErrPersist, err)
	}

	s.logger.Debug("saved session configuration", logging.String("path", s.path))
	return nil
}
