// Package store handles SQLite persistence of generation runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"

	"github.com/verte-zerg/wordsgen/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width UTC timestamps keep text ordering equal to time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			input_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			name TEXT NOT NULL,
			requested INTEGER NOT NULL,
			emitted INTEGER NOT NULL,
			input_words INTEGER NOT NULL,
			output_sha256 TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_ms, input_path, output_path, name, requested, emitted, input_words, output_sha256)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(timeLayout),
		run.DurationMs,
		run.InputPath,
		run.OutputPath,
		run.Name,
		run.Requested,
		run.Emitted,
		run.InputWords,
		run.OutputSHA256,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns runs oldest first. When last > 0 only the most recent last runs are returned.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.Run, error) {
	query := `SELECT id, started_at, duration_ms, input_path, output_path, name, requested, emitted, input_words, output_sha256
		FROM runs
		ORDER BY started_at ASC, id ASC`
	args := []any{}
	if last > 0 {
		query = `SELECT * FROM (
			SELECT id, started_at, duration_ms, input_path, output_path, name, requested, emitted, input_words, output_sha256
			FROM runs
			ORDER BY started_at DESC, id DESC
			LIMIT ?
		) ORDER BY started_at ASC, id ASC`
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LastRun returns the most recent run for outputPath, or false when there is none.
func (s *Store) LastRun(ctx context.Context, outputPath string) (model.Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, input_path, output_path, name, requested, emitted, input_words, output_sha256
		 FROM runs
		 WHERE output_path = ?
		 ORDER BY started_at DESC, id DESC
		 LIMIT 1`, outputPath)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, false, nil
	}
	if err != nil {
		return model.Run{}, false, err
	}
	return run, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.Run, error) {
	var (
		run                         model.Run
		startedAt                   string
		requested, emitted, inWords int64
	)
	if err := row.Scan(&run.ID, &startedAt, &run.DurationMs, &run.InputPath, &run.OutputPath, &run.Name,
		&requested, &emitted, &inWords, &run.OutputSHA256); err != nil {
		return model.Run{}, err
	}
	parsed, err := time.Parse(timeLayout, startedAt)
	if err != nil {
		return model.Run{}, err
	}
	run.StartedAt = parsed
	if run.Requested, err = safecast.Conv[int](requested); err != nil {
		return model.Run{}, fmt.Errorf("run %d requested: %w", run.ID, err)
	}
	if run.Emitted, err = safecast.Conv[int](emitted); err != nil {
		return model.Run{}, fmt.Errorf("run %d emitted: %w", run.ID, err)
	}
	if run.InputWords, err = safecast.Conv[int](inWords); err != nil {
		return model.Run{}, fmt.Errorf("run %d input words: %w", run.ID, err)
	}
	return run, nil
}
