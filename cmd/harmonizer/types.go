package main

import (
	"time"

	"github.com/jward/harmonizer"
	"github.com/jward/harmonizer/internal/suggest"
)

// suggestionIndex is the built-in verb table used by the suggest command.
var suggestionIndex = suggest.NewIndex()

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIFunction is a one-line view of a function report.
type CLIFunction struct {
	ID          int64                `json:"id,omitempty"`
	Name        string               `json:"name"`
	Kind        string               `json:"kind"`
	Language    string               `json:"language"`
	File        string               `json:"file"`
	StartLine   int                  `json:"start_line"`
	EndLine     int                  `json:"end_line"`
	Severity    harmonizer.Severity  `json:"severity"`
	Disharmony  float64              `json:"disharmony"`
	Intent      harmonizer.Dimension `json:"intent"`
	Execution   harmonizer.Dimension `json:"execution"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

// CLIFile is a JSON-friendly file representation.
type CLIFile struct {
	ID            int64     `json:"id"`
	Path          string    `json:"path"`
	Language      string    `json:"language"`
	FunctionCount int       `json:"function_count"`
	ParseError    string    `json:"parse_error,omitempty"`
	LastAnalyzed  time.Time `json:"last_analyzed"`
}

// CLIRun is a JSON-friendly run record.
type CLIRun struct {
	ID           string    `json:"id"`
	Root         string    `json:"root,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitempty"`
	Files        int       `json:"files"`
	FilesSkipped int       `json:"files_skipped"`
	Functions    int       `json:"functions"`
	Errors       int       `json:"errors"`
}

// CLIRunSummary reports one analyze invocation.
type CLIRunSummary struct {
	RunID        string         `json:"run_id"`
	Database     string         `json:"database"`
	Root         string         `json:"root"`
	Files        int            `json:"files"`
	FilesSkipped int            `json:"files_skipped"`
	ParseErrors  int            `json:"parse_errors"`
	Functions    int            `json:"functions"`
	BySeverity   map[string]int `json:"by_severity"`
	Worsened     int            `json:"worsened"`
	Improved     int            `json:"improved"`
	Reanalyzed   bool           `json:"reanalyzed"`
	DurationMS   int64          `json:"duration_ms"`
}

// CLIWord is one vocabulary lookup.
type CLIWord struct {
	Word      string `json:"word"`
	Phrase    string `json:"phrase"`
	Known     bool   `json:"known"`
	Dimension string `json:"dimension,omitempty"`
	Tier      string `json:"tier,omitempty"`
}

// CLISuggestions is the result of the suggest command.
type CLISuggestions struct {
	Words       []string                `json:"words"`
	Execution   harmonizer.Coordinate   `json:"execution"`
	Dominant    harmonizer.Dimension    `json:"dominant"`
	Suggestions []harmonizer.Suggestion `json:"suggestions"`
}

// functionToCLI flattens a report.
func functionToCLI(r *harmonizer.FunctionReport) CLIFunction {
	names := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		names[i] = s.Name
	}
	return CLIFunction{
		ID:          r.ID,
		Name:        r.Function.Name,
		Kind:        string(r.Function.Kind),
		Language:    string(r.Function.Language),
		File:        r.File,
		StartLine:   r.Function.Span.StartLine,
		EndLine:     r.Function.Span.EndLine,
		Severity:    r.Severity,
		Disharmony:  r.Disharmony,
		Intent:      r.IntentDominant,
		Execution:   r.ExecutionDominant,
		Suggestions: names,
	}
}

// fileToCLI converts a stored file.
func fileToCLI(f harmonizer.File) CLIFile {
	return CLIFile{
		ID:            f.ID,
		Path:          f.Path,
		Language:      f.Language,
		FunctionCount: f.FunctionCount,
		ParseError:    f.ParseError,
		LastAnalyzed:  f.LastAnalyzed,
	}
}

// runToCLI converts a stored run.
func runToCLI(r *harmonizer.Run) CLIRun {
	return CLIRun{
		ID:           r.ID,
		Root:         r.Root,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Files:        r.Files,
		FilesSkipped: r.FilesSkipped,
		Functions:    r.Functions,
		Errors:       r.Errors,
	}
}

// runSummaryToCLI converts an analyze result.
func runSummaryToCLI(s *harmonizer.RunSummary, dbPath string) CLIRunSummary {
	return CLIRunSummary{
		RunID:        s.RunID,
		Database:     dbPath,
		Root:         s.Root,
		Files:        s.Files,
		FilesSkipped: s.FilesSkipped,
		ParseErrors:  s.ParseErrors,
		Functions:    s.Functions,
		BySeverity:   s.BySeverity,
		Worsened:     s.Worsened,
		Improved:     s.Improved,
		Reanalyzed:   s.Reanalyzed,
		DurationMS:   s.Duration.Milliseconds(),
	}
}

// wordToCLI looks word up in table.
func wordToCLI(word string, table *harmonizer.Vocabulary) CLIWord {
	m, ok := table.Explain(word)
	if !ok {
		return CLIWord{Word: word}
	}
	return CLIWord{
		Word:      word,
		Phrase:    m.Phrase,
		Known:     true,
		Dimension: m.Dimension.String(),
		Tier:      m.Tier.String(),
	}
}
