package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hybridcap/internal/config"
	"hybridcap/internal/session"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; operators clear the history database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Recording is one completed capture session.
type Recording struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	Duration   time.Duration
	Config     session.Configuration
	OutputPath string
	// StopError carries the backend's stop failure, when there was one.
	// The recording still ended; the file may be truncated.
	StopError string
}

// Store manages recording history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'hybridcap history clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Add appends a completed recording.
func (s *Store) Add(ctx context.Context, rec Recording) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("recording id required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recordings (
            id, started_at, ended_at, duration_seconds,
            width, height, frame_rate, codec, bitrate, preset,
            output_path, stop_error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Seconds(),
		rec.Config.Resolution.Width,
		rec.Config.Resolution.Height,
		rec.Config.FrameRate,
		rec.Config.Codec,
		rec.Config.Bitrate,
		rec.Config.Preset,
		rec.OutputPath,
		rec.StopError,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

// List returns recordings newest first, up to limit. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Recording, error) {
	query := `SELECT id, started_at, ended_at, duration_seconds,
        width, height, frame_rate, codec, bitrate, preset,
        output_path, stop_error
        FROM recordings ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		var (
			rec             Recording
			startedAt       string
			endedAt         string
			durationSeconds float64
		)
		if err := rows.Scan(
			&rec.ID, &startedAt, &endedAt, &durationSeconds,
			&rec.Config.Resolution.Width, &rec.Config.Resolution.Height,
			&rec.Config.FrameRate, &rec.Config.Codec, &rec.Config.Bitrate,
			&rec.Config.Preset, &rec.OutputPath, &rec.StopError,
		); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		rec.Duration = time.Duration(durationSeconds * float64(time.Second))
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}
	return recordings, nil
}

// Clear removes all history rows.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM recordings"); err != nil {
		return fmt.Errorf("clear recordings: %w", err)
	}
	return nil
}

// Prune deletes rows older than retentionDays. Zero or negative retention
// keeps everything.
func (s *Store) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, "DELETE FROM recordings WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune recordings: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned rows: %w", err)
	}
	return removed, nil
}
