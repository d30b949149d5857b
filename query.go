package harmonizer

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/store"
	"github.com/jward/harmonizer/internal/suggest"
)

// QueryBuilder provides a read-only query API over stored results.
type QueryBuilder struct {
	store *store.Store
	index *suggest.Index
}

// LanguageStats provides per-language breakdown for Summary.
type LanguageStats struct {
	Language      string `json:"language"`
	FileCount     int    `json:"file_count"`
	FunctionCount int    `json:"function_count"`
}

// Summary aggregates every stored result. Files that failed to parse are
// counted in ParseFailures and excluded from everything else.
type Summary struct {
	Files          int             `json:"files"`
	ParseFailures  int             `json:"parse_failures"`
	Functions      int             `json:"functions"`
	Mismatched     int             `json:"mismatched"`
	BySeverity     map[string]int  `json:"by_severity"`
	MeanDisharmony float64         `json:"mean_disharmony"`
	MaxDisharmony  float64         `json:"max_disharmony"`
	Languages      []LanguageStats `json:"languages"`
}

// Summary returns aggregate counts and disharmony statistics.
func (q *QueryBuilder) Summary() (*Summary, error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	db := q.store.DB()
	s := &Summary{BySeverity: severityCounts()}

	err := db.QueryRow(
		`SELECT
			COALESCE(SUM(CASE WHEN parse_error = '' OR parse_error IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN parse_error != '' THEN 1 ELSE 0 END), 0)
		 FROM files`,
	).Scan(&s.Files, &s.ParseFailures)
	if err != nil {
		return nil, fmt.Errorf("summary: files: %w", err)
	}

	var mean, max sql.NullFloat64
	err = db.QueryRow(
		`SELECT COUNT(*), AVG(fn.disharmony), MAX(fn.disharmony)
		 FROM functions fn JOIN files f ON fn.file_id = f.id
		 WHERE f.parse_error = '' OR f.parse_error IS NULL`,
	).Scan(&s.Functions, &mean, &max)
	if err != nil {
		return nil, fmt.Errorf("summary: functions: %w", err)
	}
	s.MeanDisharmony = mean.Float64
	s.MaxDisharmony = max.Float64

	rows, err := db.Query(
		`SELECT fn.severity, COUNT(*)
		 FROM functions fn JOIN files f ON fn.file_id = f.id
		 WHERE f.parse_error = '' OR f.parse_error IS NULL
		 GROUP BY fn.severity`,
	)
	if err != nil {
		return nil, fmt.Errorf("summary: severities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("summary: scan severity: %w", err)
		}
		s.BySeverity[name] = n
		if sev, err := ice.ParseSeverity(name); err == nil && sev.AtLeast(ice.Medium) {
			s.Mismatched += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary: severities: %w", err)
	}

	langRows, err := db.Query(
		`SELECT f.language, COUNT(DISTINCT f.id), COUNT(fn.id)
		 FROM files f LEFT JOIN functions fn ON fn.file_id = f.id
		 WHERE f.parse_error = '' OR f.parse_error IS NULL
		 GROUP BY f.language
		 ORDER BY f.language`,
	)
	if err != nil {
		return nil, fmt.Errorf("summary: languages: %w", err)
	}
	defer langRows.Close()
	for langRows.Next() {
		var ls LanguageStats
		if err := langRows.Scan(&ls.Language, &ls.FileCount, &ls.FunctionCount); err != nil {
			return nil, fmt.Errorf("summary: scan language: %w", err)
		}
		s.Languages = append(s.Languages, ls)
	}
	if err := langRows.Err(); err != nil {
		return nil, fmt.Errorf("summary: languages: %w", err)
	}
	return s, nil
}

// Runs returns up to limit recorded runs, newest first. A non-positive
// limit means the default page size.
func (q *QueryBuilder) Runs(limit int) ([]*Run, error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	limit = Pagination{Limit: limit}.normalize().Limit
	runs, err := q.store.RecentRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("runs: %w", err)
	}
	if runs == nil {
		runs = []*Run{}
	}
	return runs, nil
}

// Run returns one recorded run. Returns nil with no error if the ID does
// not exist.
func (q *QueryBuilder) Run(id string) (*Run, error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	r, err := q.store.RunByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return r, nil
}

// severityCounts returns a count map holding every severity level at zero.
func severityCounts() map[string]int {
	m := make(map[string]int, int(ice.Critical)+1)
	for sev := ice.Excellent; sev <= ice.Critical; sev++ {
		m[sev.String()] = 0
	}
	return m
}
