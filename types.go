package harmonizer

import (
	"time"

	"github.com/jward/harmonizer/internal/baseline"
	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/store"
	"github.com/jward/harmonizer/internal/suggest"
	"github.com/jward/harmonizer/internal/vocab"
)

// Public type aliases for internal types used in the Engine and
// QueryBuilder APIs. External consumers use these names; no conversion is
// needed.

type Store = store.Store
type File = store.File
type Run = store.Run
type Coordinate = coord.Coordinate
type Dimension = coord.Dimension
type Severity = ice.Severity
type Vocabulary = vocab.Table
type FunctionRecord = extract.FunctionRecord
type Suggestion = suggest.Suggestion
type DimensionDelta = ice.DimensionDelta
type BaselineReport = baseline.Report
type NodeTag = extract.Node

// Severities, least to most severe.
const (
	SeverityExcellent = ice.Excellent
	SeverityLow       = ice.Low
	SeverityMedium    = ice.Medium
	SeverityHigh      = ice.High
	SeverityCritical  = ice.Critical
)

// ParseSeverity accepts a severity name, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	return ice.ParseSeverity(s)
}

// FunctionReport is the full analysis of one function.
type FunctionReport struct {
	// ID is the stored function ID; zero for reports that were not stored.
	ID       int64          `json:"id,omitempty"`
	File     string         `json:"file"`
	Function FunctionRecord `json:"function"`

	Intent    Coordinate `json:"intent"`
	Context   Coordinate `json:"context"`
	Execution Coordinate `json:"execution"`

	Disharmony  float64  `json:"disharmony"`
	Coherence   float64  `json:"coherence"`
	Balance     float64  `json:"balance"`
	Benevolence float64  `json:"benevolence"`
	Severity    Severity `json:"severity"`

	IntentDominant    Dimension `json:"intent_dominant"`
	ExecutionDominant Dimension `json:"execution_dominant"`

	Breakdown   []DimensionDelta `json:"breakdown"`
	Suggestions []Suggestion     `json:"suggestions,omitempty"`

	// NodeTags is set when node tagging is enabled.
	NodeTags []NodeTag `json:"node_tags,omitempty"`
	// Baseline is set when baseline diagnostics are enabled.
	Baseline *BaselineReport `json:"baseline,omitempty"`
}

// Mismatched reports whether the function's name promises something its
// body does not deliver.
func (r *FunctionReport) Mismatched() bool {
	return r.Severity.AtLeast(ice.Medium)
}

// RunSummary describes one AnalyzeFiles or AnalyzeDirectory call.
type RunSummary struct {
	RunID        string         `json:"run_id"`
	Root         string         `json:"root,omitempty"`
	Files        int            `json:"files"`
	FilesSkipped int            `json:"files_skipped"`
	ParseErrors  int            `json:"parse_errors"`
	Functions    int            `json:"functions"`
	BySeverity   map[string]int `json:"by_severity"`
	// Worsened and Improved count functions, matched by identity across the
	// previous analysis of the same file, whose severity changed.
	Worsened int           `json:"worsened"`
	Improved int           `json:"improved"`
	Duration time.Duration `json:"duration"`
	// Reanalyzed is true when a vocabulary change forced every file to be
	// analyzed again.
	Reanalyzed bool `json:"reanalyzed"`
}
