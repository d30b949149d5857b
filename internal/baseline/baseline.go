// Package baseline scores unnormalized coordinates against two reference
// points: the Natural Equilibrium built from four mathematical constants and
// the (1,1,1,1) Anchor.
//
// Love amplifies the other three dimensions through a fixed coupling table,
// so the scores here are nonlinear and may exceed 1.
package baseline

import (
	"fmt"
	"math"

	"github.com/jward/harmonizer/internal/coord"
)

// AbsoluteCoordinate is an unnormalized point. Its components need not sum
// to 1 and it is never interchangeable with coord.Coordinate.
type AbsoluteCoordinate struct {
	L float64 `json:"love"`
	J float64 `json:"justice"`
	P float64 `json:"power"`
	W float64 `json:"wisdom"`
}

func (a AbsoluteCoordinate) String() string {
	return fmt.Sprintf("(L=%.3f, J=%.3f, P=%.3f, W=%.3f)", a.L, a.J, a.P, a.W)
}

func (a AbsoluteCoordinate) components() [coord.NumDimensions]float64 {
	return [coord.NumDimensions]float64{a.L, a.J, a.P, a.W}
}

// Distance is the Euclidean distance between two absolute coordinates.
func (a AbsoluteCoordinate) Distance(b AbsoluteCoordinate) float64 {
	x, y := a.components(), b.components()
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Reference points.
var (
	NaturalEquilibrium = AbsoluteCoordinate{
		L: (math.Sqrt(5) - 1) / 2, // 1/phi
		J: math.Sqrt2 - 1,
		P: math.E - 2,
		W: math.Ln2,
	}
	Anchor = AbsoluteCoordinate{L: 1, J: 1, P: 1, W: 1}
)

// Coupling holds the cross-dimension coefficients, indexed [from][to] in
// Love, Justice, Power, Wisdom order. Only Love's row feeds Amplify.
var Coupling = [coord.NumDimensions][coord.NumDimensions]float64{
	{1.0, 1.4, 1.3, 1.5},
	{0.9, 1.0, 0.7, 1.2},
	{0.6, 0.8, 1.0, 0.5},
	{1.3, 1.2, 1.1, 1.0},
}

// FromCoordinate scales a normalized coordinate by the number of dimensions,
// so the neutral point maps onto Anchor.
func FromCoordinate(c coord.Coordinate) AbsoluteCoordinate {
	return AbsoluteCoordinate{
		L: c.Love() * coord.NumDimensions,
		J: c.Justice() * coord.NumDimensions,
		P: c.Power() * coord.NumDimensions,
		W: c.Wisdom() * coord.NumDimensions,
	}
}

// Amplify applies Love's coupling to Justice, Power and Wisdom. Love itself
// is unchanged.
func Amplify(a AbsoluteCoordinate) AbsoluteCoordinate {
	k := Coupling[coord.Love]
	return AbsoluteCoordinate{
		L: a.L,
		J: a.J * (1 + k[coord.Justice]*a.L),
		P: a.P * (1 + k[coord.Power]*a.L),
		W: a.W * (1 + k[coord.Wisdom]*a.L),
	}
}

// HarmonicMean is the robustness score. It is 0 if any axis is 0.
func HarmonicMean(a AbsoluteCoordinate) float64 {
	var inv float64
	for _, x := range a.components() {
		if x <= 0 {
			return 0
		}
		inv += 1 / x
	}
	return coord.NumDimensions / inv
}

// GeometricMean is the effectiveness score.
func GeometricMean(a AbsoluteCoordinate) float64 {
	prod := 1.0
	for _, x := range a.components() {
		if x <= 0 {
			return 0
		}
		prod *= x
	}
	return math.Pow(prod, 1.0/coord.NumDimensions)
}

// GrowthPotential is the coupling-aware weighted sum.
func GrowthPotential(a AbsoluteCoordinate) float64 {
	e := Amplify(a)
	return 0.35*a.L + 0.25*e.J + 0.2*e.P + 0.2*e.W
}

// HarmonyIndex is 1/(1+distance to Anchor).
func HarmonyIndex(a AbsoluteCoordinate) float64 {
	return 1 / (1 + a.Distance(Anchor))
}

// Composite combines the four scores.
func Composite(a AbsoluteCoordinate) float64 {
	return 0.35*GrowthPotential(a) + 0.25*GeometricMean(a) + 0.25*HarmonicMean(a) + 0.15*HarmonyIndex(a)
}

// DistanceFromEquilibrium is the distance to NaturalEquilibrium.
func DistanceFromEquilibrium(a AbsoluteCoordinate) float64 {
	return a.Distance(NaturalEquilibrium)
}

// InterpretComposite labels a composite score.
func InterpretComposite(score float64) string {
	switch {
	case score < 0.5:
		return "Critical"
	case score < 0.7:
		return "Struggling"
	case score < 0.9:
		return "Competent"
	case score < 1.1:
		return "Strong"
	case score < 1.3:
		return "Excellent"
	default:
		return "Elite"
	}
}

// InterpretDistance labels a distance from NaturalEquilibrium.
func InterpretDistance(d float64) string {
	switch {
	case d < 0.2:
		return "Near-optimal"
	case d < 0.5:
		return "Good"
	case d < 0.8:
		return "Moderate"
	default:
		return "Significant dysfunction"
	}
}

// Report bundles every score for one coordinate.
type Report struct {
	Coordinate          AbsoluteCoordinate `json:"coordinate"`
	Effective           AbsoluteCoordinate `json:"effective"`
	Robustness          float64            `json:"robustness"`
	Effectiveness       float64            `json:"effectiveness"`
	GrowthPotential     float64            `json:"growth_potential"`
	Harmony             float64            `json:"harmony"`
	Composite           float64            `json:"composite"`
	CompositeLabel      string             `json:"composite_label"`
	EquilibriumDistance float64            `json:"equilibrium_distance"`
	EquilibriumLabel    string             `json:"equilibrium_label"`
}

// Diagnose scores a.
func Diagnose(a AbsoluteCoordinate) Report {
	composite := Composite(a)
	dist := DistanceFromEquilibrium(a)
	return Report{
		Coordinate:          a,
		Effective:           Amplify(a),
		Robustness:          HarmonicMean(a),
		Effectiveness:       GeometricMean(a),
		GrowthPotential:     GrowthPotential(a),
		Harmony:             HarmonyIndex(a),
		Composite:           composite,
		CompositeLabel:      InterpretComposite(composite),
		EquilibriumDistance: dist,
		EquilibriumLabel:    InterpretDistance(dist),
	}
}
