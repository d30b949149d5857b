package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// FileCols is the column list for file queries, exported for use by QueryBuilder.
const FileCols = `id, path, language, hash, function_count, parse_error, last_analyzed`

// InsertFile inserts f and sets its ID.
func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO files (path, language, hash, function_count, parse_error, last_analyzed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.Path, f.Language, f.Hash, f.FunctionCount, f.ParseError, f.LastAnalyzed,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

// UpdateFileResult records the outcome of analyzing a file.
func (s *Store) UpdateFileResult(fileID int64, functionCount int, parseErr string) error {
	_, err := s.db.Exec(
		"UPDATE files SET function_count = ?, parse_error = ? WHERE id = ?",
		functionCount, parseErr, fileID,
	)
	if err != nil {
		return fmt.Errorf("store: update file %d: %w", fileID, err)
	}
	return nil
}

// ScanFileRow scans a single row into a File. Exported for use by QueryBuilder.
func ScanFileRow(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	var hash, parseErr sql.NullString
	var analyzed sql.NullTime
	if err := scanner.Scan(&f.ID, &f.Path, &f.Language, &hash, &f.FunctionCount, &parseErr, &analyzed); err != nil {
		return nil, err
	}
	f.Hash = hash.String
	f.ParseError = parseErr.String
	f.LastAnalyzed = analyzed.Time
	return f, nil
}

// FileByPath returns the file at path, or ErrNotFound.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := ScanFileRow(s.db.QueryRow("SELECT "+FileCols+" FROM files WHERE path = ?", path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: file by path: %w", err)
	}
	return f, nil
}

// FileByID returns the file with id, or ErrNotFound.
func (s *Store) FileByID(id int64) (*File, error) {
	f, err := ScanFileRow(s.db.QueryRow("SELECT "+FileCols+" FROM files WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: file by id: %w", err)
	}
	return f, nil
}

// FilesByLanguage returns every file of one language ordered by path.
func (s *Store) FilesByLanguage(language string) ([]*File, error) {
	rows, err := s.db.Query("SELECT "+FileCols+" FROM files WHERE language = ? ORDER BY path", language)
	if err != nil {
		return nil, fmt.Errorf("store: files by language: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := ScanFileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
