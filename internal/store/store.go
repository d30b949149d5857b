package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store is the SQLite data access layer for analysis results.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for read queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  hash            TEXT,
  function_count  INTEGER DEFAULT 0,
  parse_error     TEXT DEFAULT '',
  last_analyzed   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS functions (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  params          TEXT,
  is_async        BOOLEAN DEFAULT FALSE,
  is_generator    BOOLEAN DEFAULT FALSE,
  is_arrow        BOOLEAN DEFAULT FALSE,
  doc             TEXT,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER,
  intent_l        REAL, intent_j REAL, intent_p REAL, intent_w REAL,
  context_l       REAL, context_j REAL, context_p REAL, context_w REAL,
  execution_l     REAL, execution_j REAL, execution_p REAL, execution_w REAL,
  disharmony      REAL NOT NULL,
  coherence       REAL,
  balance         REAL,
  benevolence     REAL,
  severity        TEXT NOT NULL,
  intent_dominant TEXT,
  execution_dominant TEXT,
  node_tags       BLOB
);

CREATE TABLE IF NOT EXISTS suggestions (
  id              INTEGER PRIMARY KEY,
  function_id     INTEGER NOT NULL REFERENCES functions(id),
  rank            INTEGER NOT NULL,
  name            TEXT NOT NULL,
  verb            TEXT NOT NULL,
  category        TEXT,
  similarity      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
  id              TEXT PRIMARY KEY,
  root            TEXT,
  started_at      TIMESTAMP,
  finished_at     TIMESTAMP,
  files           INTEGER DEFAULT 0,
  files_skipped   INTEGER DEFAULT 0,
  functions       INTEGER DEFAULT 0,
  errors          INTEGER DEFAULT 0,
  vocab_fingerprint TEXT
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_functions_file ON functions(file_id);
CREATE INDEX IF NOT EXISTS idx_functions_name ON functions(name);
CREATE INDEX IF NOT EXISTS idx_functions_disharmony ON functions(disharmony);
CREATE INDEX IF NOT EXISTS idx_functions_severity ON functions(severity);
CREATE INDEX IF NOT EXISTS idx_suggestions_function ON suggestions(function_id);
`

// DeleteFileData transactionally removes a file's functions and their
// suggestions. The file row itself is left in place.
func (s *Store) DeleteFileData(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM suggestions WHERE function_id IN (SELECT id FROM functions WHERE file_id = ?)", fileID,
	); err != nil {
		return fmt.Errorf("store: delete suggestions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM functions WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("store: delete functions: %w", err)
	}
	return tx.Commit()
}

// DeleteFile removes a file and everything that belongs to it.
func (s *Store) DeleteFile(fileID int64) error {
	if err := s.DeleteFileData(fileID); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("store: delete file: %w", err)
	}
	return nil
}

// Reset removes every analysis result. Metadata and runs are kept.
func (s *Store) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, q := range []string{
		"DELETE FROM suggestions",
		"DELETE FROM functions",
		"DELETE FROM files",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("store: reset: %w", err)
		}
	}
	return tx.Commit()
}

// GetMetadata returns the value stored under key, or "" when unset.
func (s *Store) GetMetadata(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get metadata %s: %w", key, err)
	}
	return v, nil
}

// SetMetadata stores value under key, replacing any previous value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("store: set metadata %s: %w", key, err)
	}
	return nil
}
