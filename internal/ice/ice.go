// Package ice measures the disharmony between what a function says it does
// (intent), where it lives (context) and what it actually does (execution).
package ice

import (
	"fmt"
	"math"
	"strings"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/vocab"
)

// Severity classifies a disharmony score.
type Severity int

const (
	Excellent Severity = iota
	Low
	Medium
	High
	Critical
)

// Severity thresholds, inclusive upper bounds.
const (
	ExcellentMax = 0.3
	LowMax       = 0.5
	MediumMax    = 0.8
	HighMax      = 1.2
)

var severityNames = [...]string{"excellent", "low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < Excellent || s > Critical {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity accepts a severity name, case-insensitively.
func ParseSeverity(str string) (Severity, error) {
	want := strings.ToLower(strings.TrimSpace(str))
	for i, name := range severityNames {
		if name == want {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("ice: unknown severity %q", str)
}

// Classify maps a disharmony score onto a severity.
func Classify(disharmony float64) Severity {
	switch {
	case disharmony <= ExcellentMax:
		return Excellent
	case disharmony <= LowMax:
		return Low
	case disharmony <= MediumMax:
		return Medium
	case disharmony <= HighMax:
		return High
	default:
		return Critical
	}
}

// Collapsed maps the five levels onto low, medium and high.
func (s Severity) Collapsed() Severity {
	switch s {
	case Excellent:
		return Low
	case Critical:
		return High
	}
	return s
}

// AtLeast reports whether s is as severe as min or worse.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// Result is the analysis of one function.
type Result struct {
	Intent      coord.Coordinate `json:"-"`
	Context     coord.Coordinate `json:"-"`
	Execution   coord.Coordinate `json:"-"`
	Disharmony  float64          `json:"disharmony"`
	Coherence   float64          `json:"coherence"`
	Balance     float64          `json:"balance"`
	Benevolence float64          `json:"benevolence"`
	Severity    Severity         `json:"severity"`
}

// Analyzer scores intent, context and execution word lists.
type Analyzer struct {
	table *vocab.Table
}

// New returns an analyzer that resolves words through table. A nil table
// means the built-in vocabulary.
func New(table *vocab.Table) *Analyzer {
	if table == nil {
		table = vocab.Default()
	}
	return &Analyzer{table: table}
}

// Analyze scores plain word lists.
func (a *Analyzer) Analyze(intent, context, execution []string) Result {
	return a.AnalyzeConcepts(vocab.Words(intent...), vocab.Words(context...), vocab.Words(execution...))
}

// AnalyzeConcepts scores concept lists. Tagged concepts keep their
// dimension; untagged ones are looked up.
func (a *Analyzer) AnalyzeConcepts(intent, context, execution []vocab.Concept) Result {
	return AnalyzeCoordinates(
		a.table.Coordinate(intent),
		a.table.Coordinate(context),
		a.table.Coordinate(execution),
	)
}

// AnalyzeCoordinates scores three coordinates that were built elsewhere.
func AnalyzeCoordinates(intent, context, execution coord.Coordinate) Result {
	points := [3]coord.Coordinate{intent, context, execution}

	pairwise := (intent.Distance(context) + intent.Distance(execution) + context.Distance(execution)) / 3
	var anchor float64
	for _, p := range points {
		anchor += p.DistanceFromAnchor()
	}
	anchor /= float64(len(points))

	d := intent.Distance(execution)
	return Result{
		Intent:      intent,
		Context:     context,
		Execution:   execution,
		Disharmony:  d,
		Coherence:   math.Max(0, 1-pairwise/math.Sqrt(3)),
		Balance:     math.Max(0, 1-anchor/math.Sqrt(3)),
		Benevolence: (benevolence(intent) + benevolence(execution)) / 2,
		Severity:    Classify(d),
	}
}

func benevolence(c coord.Coordinate) float64 {
	return 0.4*c.Love() + 0.4*c.Wisdom() + 0.15*c.Justice() + 0.05*c.Power()
}

// DimensionDelta is one row of a Breakdown.
type DimensionDelta struct {
	Dimension coord.Dimension `json:"dimension"`
	Intent    float64         `json:"intent"`
	Execution float64         `json:"execution"`
	Delta     float64         `json:"delta"`
}

// Breakdown lists intent, execution and execution-minus-intent per
// dimension.
func Breakdown(r Result) [coord.NumDimensions]DimensionDelta {
	var out [coord.NumDimensions]DimensionDelta
	for i, d := range coord.Dimensions {
		in, ex := r.Intent.Get(d), r.Execution.Get(d)
		out[i] = DimensionDelta{Dimension: d, Intent: in, Execution: ex, Delta: ex - in}
	}
	return out
}

// Largest returns the breakdown row with the biggest absolute delta. Ties
// keep dimension order.
func Largest(rows [coord.NumDimensions]DimensionDelta) DimensionDelta {
	best := rows[0]
	for _, r := range rows[1:] {
		if math.Abs(r.Delta) > math.Abs(best.Delta) {
			best = r
		}
	}
	return best
}
