// Package store is the local sqlite database: a local-storage style key/value
// table and a journal of render runs.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Retention is how long run records are kept by Prune.
const Retention = 90 * 24 * time.Hour

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Run is one journaled orchestrator run.
type Run struct {
	ID        int64             `json:"id"`
	Source    string            `json:"source"`
	State     string            `json:"state"`
	Error     string            `json:"error,omitempty"`
	Rendered  []string          `json:"rendered"`
	Skipped   map[string]string `json:"skipped,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}

// Stats summarizes the journal.
type Stats struct {
	TotalRuns    int64     `json:"total_runs"`
	FailedRuns   int64     `json:"failed_runs"`
	PartialRuns  int64     `json:"partial_runs"`
	RunsToday    int64     `json:"runs_today"`
	LastRunAt    time.Time `json:"last_run_at,omitempty"`
	StoredKeys   int64     `json:"stored_keys"`
	RecentFailed []Run     `json:"recent_failed"`
}

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	goose.SetLogger(&gooseLogger{logger})
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. It reports whether the key existed.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("remove %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RecordRun appends a run to the journal and sets its ID.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	rendered, err := json.Marshal(nonNil(run.Rendered))
	if err != nil {
		return err
	}
	skipped, err := json.Marshal(run.Skipped)
	if err != nil {
		return err
	}
	if run.Skipped == nil {
		skipped = []byte("{}")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO render_runs (source, state, error, rendered, skipped, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.Source, run.State, nullString(run.Error), string(rendered), string(skipped),
		run.StartedAt.UTC(), run.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT id, source, state, COALESCE(error, ''), rendered, skipped, started_at, duration_ms
		FROM render_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
}

// Stats computes the journal summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM render_runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM render_runs WHERE state = 'failed'`).Scan(&stats.FailedRuns)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM render_runs
		WHERE state = 'ready' AND skipped <> '{}'
	`).Scan(&stats.PartialRuns)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM render_runs
		WHERE started_at >= ?
	`, time.Now().UTC().Truncate(24*time.Hour)).Scan(&stats.RunsToday)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM local_storage`).Scan(&stats.StoredKeys)
	if err != nil {
		return nil, err
	}

	recent, err := s.RecentRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		stats.LastRunAt = recent[0].StartedAt
	}

	stats.RecentFailed, err = s.queryRuns(ctx, `
		SELECT id, source, state, COALESCE(error, ''), rendered, skipped, started_at, duration_ms
		FROM render_runs
		WHERE state = 'failed'
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, 10)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Prune deletes runs older than maxAge and returns how many were removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM render_runs WHERE started_at < ?`, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("pruned render journal", "removed", n, "older_than", maxAge)
	}
	return n, nil
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			rendered string
			skipped  string
			ms       int64
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.State, &run.Error, &rendered, &skipped, &run.StartedAt, &ms); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rendered), &run.Rendered); err != nil {
			s.logger.Warn("corrupt rendered column", "run", run.ID, "error", err)
		}
		if err := json.Unmarshal([]byte(skipped), &run.Skipped); err != nil {
			s.logger.Warn("corrupt skipped column", "run", run.ID, "error", err)
		}
		if len(run.Skipped) == 0 {
			run.Skipped = nil
		}
		run.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
