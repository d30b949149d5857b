package ice

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/vocab"
)

func TestAnalyzeCoordinates_Opposed(t *testing.T) {
	t.Parallel()

	r := AnalyzeCoordinates(coord.Pure(coord.Wisdom), coord.Neutral, coord.Pure(coord.Power))
	assert.InDelta(t, 1.414, r.Disharmony, 1e-3)
	assert.InDelta(t, math.Sqrt2, r.Disharmony, 1e-12)
	assert.Equal(t, Critical, r.Severity)
	assert.Equal(t, "critical", r.Severity.String())
}

func TestAnalyzeCoordinates_Identical(t *testing.T) {
	t.Parallel()

	c := coord.MustFromCounts(1, 2, 0, 3)
	r := AnalyzeCoordinates(c, c, c)
	assert.InDelta(t, 0.0, r.Disharmony, 1e-12)
	assert.Equal(t, Excellent, r.Severity)
	assert.InDelta(t, 1.0, r.Coherence, 1e-12)

	n := AnalyzeCoordinates(coord.Neutral, coord.Neutral, coord.Neutral)
	assert.InDelta(t, 1.0, n.Balance, 1e-12)
	assert.InDelta(t, 1.0, n.Coherence, 1e-12)
}

func TestAnalyzeCoordinates_Metrics(t *testing.T) {
	t.Parallel()

	love := coord.Pure(coord.Love)
	power := coord.Pure(coord.Power)

	r := AnalyzeCoordinates(love, love, love)
	assert.InDelta(t, 0.4, r.Benevolence, 1e-12)

	r = AnalyzeCoordinates(power, coord.Neutral, power)
	assert.InDelta(t, 0.05, r.Benevolence, 1e-12)

	// Pure points sit sqrt(0.75) from the anchor.
	r = AnalyzeCoordinates(love, love, love)
	assert.InDelta(t, 1-math.Sqrt(0.75)/math.Sqrt(3), r.Balance, 1e-12)

	r = AnalyzeCoordinates(coord.Pure(coord.Wisdom), coord.Pure(coord.Justice), power)
	assert.InDelta(t, 1-math.Sqrt2/math.Sqrt(3), r.Coherence, 1e-12)
	assert.GreaterOrEqual(t, r.Coherence, 0.0)
	assert.GreaterOrEqual(t, r.Balance, 0.0)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    float64
		want Severity
	}{
		{0, Excellent},
		{0.3, Excellent},
		{0.31, Low},
		{0.5, Low},
		{0.51, Medium},
		{0.8, Medium},
		{0.81, High},
		{1.2, High},
		{1.21, Critical},
		{math.Sqrt2, Critical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.d), "%v", tt.d)
	}
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Low, Excellent.Collapsed())
	assert.Equal(t, Low, Low.Collapsed())
	assert.Equal(t, Medium, Medium.Collapsed())
	assert.Equal(t, High, High.Collapsed())
	assert.Equal(t, High, Critical.Collapsed())

	assert.True(t, High.AtLeast(Medium))
	assert.True(t, Medium.AtLeast(Medium))
	assert.False(t, Low.AtLeast(Medium))

	s, err := ParseSeverity("HIGH")
	require.NoError(t, err)
	assert.Equal(t, High, s)
	_, err = ParseSeverity("dire")
	assert.Error(t, err)

	b, err := json.Marshal(struct{ S Severity }{Medium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"S":"medium"}`, string(b))

	var back struct{ S Severity }
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Medium, back.S)
}

func TestAnalyze_GetUserData(t *testing.T) {
	t.Parallel()

	a := New(vocab.Default())
	r := a.AnalyzeConcepts(
		vocab.Words("getUserData"),
		vocab.Words("users", "javascript"),
		[]vocab.Concept{
			{Word: "delete"},
			{Word: "remove"},
			{Word: "return", Dimension: coord.Wisdom, Tagged: true},
		},
	)

	assert.Equal(t, coord.Wisdom, r.Intent.Dominant())
	assert.Equal(t, coord.Power, r.Execution.Dominant())
	assert.Greater(t, r.Disharmony, 0.5)
	assert.True(t, r.Severity.AtLeast(Medium))
	assert.InDelta(t, math.Sqrt(8)/3, r.Disharmony, 1e-12)
	assert.Equal(t, High, r.Severity)

	rows := Breakdown(r)
	assert.Equal(t, coord.Power, rows[coord.Power].Dimension)
	assert.InDelta(t, 2.0/3.0, rows[coord.Power].Delta, 1e-12)
	assert.InDelta(t, -2.0/3.0, rows[coord.Wisdom].Delta, 1e-12)
	assert.InDelta(t, 0.0, rows[coord.Love].Delta, 1e-12)
}

func TestAnalyze_PlainWords(t *testing.T) {
	t.Parallel()

	a := New(nil)
	r := a.Analyze([]string{"validate"}, nil, []string{"check", "verify"})
	assert.InDelta(t, 0.0, r.Disharmony, 1e-12)
	assert.Equal(t, Excellent, r.Severity)
	assert.Equal(t, coord.Neutral, r.Context)
}

func TestLargest(t *testing.T) {
	t.Parallel()

	rows := [coord.NumDimensions]DimensionDelta{
		{Dimension: coord.Love, Delta: 0.1},
		{Dimension: coord.Justice, Delta: -0.5},
		{Dimension: coord.Power, Delta: 0.5},
		{Dimension: coord.Wisdom, Delta: 0.2},
	}
	assert.Equal(t, coord.Justice, Largest(rows).Dimension)
}
