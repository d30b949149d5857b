package store

import "time"

// File is one analyzed source file.
type File struct {
	ID            int64
	Path          string
	Language      string
	Hash          string
	FunctionCount int
	// ParseError is empty when the file parsed.
	ParseError   string
	LastAnalyzed time.Time
}

// Function is one analyzed function with its coordinates and metrics.
type Function struct {
	ID          int64
	FileID      int64
	Name        string
	Kind        string
	Params      []string
	IsAsync     bool
	IsGenerator bool
	IsArrow     bool
	Doc         string
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int

	// Coordinates in Love, Justice, Power, Wisdom order.
	Intent    [4]float64
	Context   [4]float64
	Execution [4]float64

	Disharmony  float64
	Coherence   float64
	Balance     float64
	Benevolence float64
	Severity    string

	IntentDominant    string
	ExecutionDominant string

	// NodeTags is the raw JSON of the tagged nodes; stored compressed.
	NodeTags []byte
}

// Suggestion is one ranked name for a function.
type Suggestion struct {
	ID         int64
	FunctionID int64
	Rank       int
	Name       string
	Verb       string
	Category   string
	Similarity float64
}

// Run records one analysis invocation.
type Run struct {
	ID               string
	Root             string
	StartedAt        time.Time
	FinishedAt       time.Time
	Files            int
	FilesSkipped     int
	Functions        int
	Errors           int
	VocabFingerprint string
}
