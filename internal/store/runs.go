package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const runCols = `id, root, started_at, finished_at, files, files_skipped, functions, errors, vocab_fingerprint`

// StartRun records the start of an analysis run and returns it with a
// fresh ID.
func (s *Store) StartRun(root, fingerprint string, started time.Time) (*Run, error) {
	r := &Run{
		ID:               uuid.NewString(),
		Root:             root,
		StartedAt:        started,
		VocabFingerprint: fingerprint,
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, root, started_at, vocab_fingerprint) VALUES (?, ?, ?, ?)",
		r.ID, r.Root, r.StartedAt, r.VocabFingerprint,
	)
	if err != nil {
		return nil, fmt.Errorf("store: start run: %w", err)
	}
	return r, nil
}

// FinishRun stores the counters of a completed run.
func (s *Store) FinishRun(r *Run) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, files = ?, files_skipped = ?, functions = ?, errors = ?
		 WHERE id = ?`,
		r.FinishedAt, r.Files, r.FilesSkipped, r.Functions, r.Errors, r.ID,
	)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: finish run %s: %w", r.ID, ErrNotFound)
	}
	return nil
}

func scanRun(scanner interface{ Scan(...any) error }) (*Run, error) {
	r := &Run{}
	var root, fp sql.NullString
	var started, finished sql.NullTime
	if err := scanner.Scan(&r.ID, &root, &started, &finished, &r.Files, &r.FilesSkipped, &r.Functions, &r.Errors, &fp); err != nil {
		return nil, err
	}
	r.Root = root.String
	r.StartedAt = started.Time
	r.FinishedAt = finished.Time
	r.VocabFingerprint = fp.String
	return r, nil
}

// RunByID returns one run, or ErrNotFound.
func (s *Store) RunByID(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runCols+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: run by id: %w", err)
	}
	return r, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(
		"SELECT "+runCols+" FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent runs: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
