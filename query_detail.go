package harmonizer

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/harmonizer/internal/baseline"
	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/store"
)

// FunctionDetail bundles a stored function with the diagnostics that are
// computed on demand rather than stored.
type FunctionDetail struct {
	Report FunctionReport `json:"report"`
	// Largest is the breakdown row with the biggest intent/execution gap.
	Largest DimensionDelta `json:"largest"`
	// Explanation is a one-line reading of the mismatch, empty when the
	// function is not mismatched.
	Explanation string         `json:"explanation,omitempty"`
	Baseline    BaselineReport `json:"baseline"`
}

// FunctionDetail returns the function with id and its diagnostics.
// Returns nil with no error if the function ID does not exist.
func (q *QueryBuilder) FunctionDetail(id int64) (*FunctionDetail, error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	fn, err := q.store.FunctionByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("function detail: %w", err)
	}
	file, err := q.store.FileByID(fn.FileID)
	if err != nil {
		return nil, fmt.Errorf("function detail: file: %w", err)
	}
	sgs, err := q.store.SuggestionsByFunction(id)
	if err != nil {
		return nil, fmt.Errorf("function detail: %w", err)
	}
	rep, err := reportFromStore(fn, file, sgs)
	if err != nil {
		return nil, fmt.Errorf("function detail: %w", err)
	}
	return detailFor(rep), nil
}

// FunctionAt is a position-based convenience that resolves the innermost
// function whose span contains line (1-based) in file and returns its
// FunctionDetail. Returns nil with no error if no function covers the line.
func (q *QueryBuilder) FunctionAt(file string, line int) (*FunctionDetail, error) {
	if q.store == nil {
		return nil, ErrNoStore
	}
	f, err := q.store.FileByPath(file)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("function at: %w", err)
	}

	var id int64
	err = q.store.DB().QueryRow(
		`SELECT id FROM functions
		 WHERE file_id = ? AND start_line <= ? AND end_line >= ?
		 ORDER BY (end_line - start_line) ASC, start_line DESC
		 LIMIT 1`,
		f.ID, line, line,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("function at: %w", err)
	}
	return q.FunctionDetail(id)
}

// detailFor computes the on-demand diagnostics of a report.
func detailFor(r FunctionReport) *FunctionDetail {
	var rows [coord.NumDimensions]DimensionDelta
	copy(rows[:], r.Breakdown)
	largest := ice.Largest(rows)

	d := &FunctionDetail{
		Report:   r,
		Largest:  largest,
		Baseline: baseline.Diagnose(baseline.FromCoordinate(r.Execution)),
	}
	if r.Mismatched() {
		d.Explanation = fmt.Sprintf("%s promises %s but performs %s (%s %+.2f)",
			r.Function.Name, r.IntentDominant, r.ExecutionDominant, largest.Dimension, largest.Delta)
	}
	return d
}
