package baseline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/harmonizer/internal/coord"
)

func TestConstants(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.618034, NaturalEquilibrium.L, 1e-6)
	assert.InDelta(t, 0.414214, NaturalEquilibrium.J, 1e-6)
	assert.InDelta(t, 0.718282, NaturalEquilibrium.P, 1e-6)
	assert.InDelta(t, 0.693147, NaturalEquilibrium.W, 1e-6)

	assert.Equal(t, 1.4, Coupling[coord.Love][coord.Justice])
	assert.Equal(t, 1.3, Coupling[coord.Love][coord.Power])
	assert.Equal(t, 1.5, Coupling[coord.Love][coord.Wisdom])
	for d := range Coupling {
		assert.Equal(t, 1.0, Coupling[d][d])
	}
}

func TestInterpretComposite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{0.4, "Critical"},
		{0.5, "Struggling"},
		{0.69, "Struggling"},
		{0.7, "Competent"},
		{0.9, "Strong"},
		{1.0, "Strong"},
		{1.1, "Excellent"},
		{1.29, "Excellent"},
		{1.3, "Elite"},
		{1.4, "Elite"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretComposite(tt.score), "%v", tt.score)
	}
}

func TestInterpretDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Near-optimal", InterpretDistance(0))
	assert.Equal(t, "Good", InterpretDistance(0.2))
	assert.Equal(t, "Moderate", InterpretDistance(0.5))
	assert.Equal(t, "Significant dysfunction", InterpretDistance(0.8))
}

func TestAmplify(t *testing.T) {
	t.Parallel()

	a := AbsoluteCoordinate{L: 0.5, J: 1, P: 2, W: 0}
	e := Amplify(a)
	assert.Equal(t, 0.5, e.L)
	assert.InDelta(t, 1.7, e.J, 1e-12)
	assert.InDelta(t, 3.3, e.P, 1e-12)
	assert.Equal(t, 0.0, e.W)

	// Without Love nothing is amplified.
	plain := AbsoluteCoordinate{J: 1, P: 1, W: 1}
	assert.Equal(t, plain, Amplify(plain))
}

func TestMeans(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, HarmonicMean(Anchor), 1e-12)
	assert.InDelta(t, 1.0, GeometricMean(Anchor), 1e-12)
	assert.Equal(t, 0.0, HarmonicMean(AbsoluteCoordinate{L: 1, J: 0, P: 1, W: 1}))

	a := AbsoluteCoordinate{L: 1, J: 2, P: 4, W: 8}
	assert.InDelta(t, 4/(1+0.5+0.25+0.125), HarmonicMean(a), 1e-12)
	assert.InDelta(t, math.Pow(64, 0.25), GeometricMean(a), 1e-12)
}

func TestAnchorDiagnosis(t *testing.T) {
	t.Parallel()

	r := Diagnose(Anchor)
	assert.InDelta(t, 1.91, r.GrowthPotential, 1e-12)
	assert.InDelta(t, 1.0, r.Harmony, 1e-12)
	assert.InDelta(t, 0.35*1.91+0.25+0.25+0.15, r.Composite, 1e-12)
	assert.Equal(t, "Elite", r.CompositeLabel)
	assert.InDelta(t, 0.8141, r.EquilibriumDistance, 1e-3)
	assert.Equal(t, "Significant dysfunction", r.EquilibriumLabel)
	assert.Equal(t, Amplify(Anchor), r.Effective)
}

func TestEquilibriumDiagnosis(t *testing.T) {
	t.Parallel()

	r := Diagnose(NaturalEquilibrium)
	assert.InDelta(t, 0.0, r.EquilibriumDistance, 1e-12)
	assert.Equal(t, "Near-optimal", r.EquilibriumLabel)
	assert.Less(t, r.Harmony, 1.0)
}

func TestFromCoordinate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Anchor, FromCoordinate(coord.Neutral))
	assert.Equal(t, AbsoluteCoordinate{P: 4}, FromCoordinate(coord.Pure(coord.Power)))

	r := Diagnose(FromCoordinate(coord.Pure(coord.Power)))
	assert.Equal(t, 0.0, r.Robustness)
	assert.Equal(t, 0.0, r.Effectiveness)
	assert.InDelta(t, 0.8, r.GrowthPotential, 1e-12)
}
