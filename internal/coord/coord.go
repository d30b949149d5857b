// Package coord implements the four-dimensional semantic coordinate space.
//
// A Coordinate is a point on the 3-simplex: four non-negative components
// (Love, Justice, Power, Wisdom) that sum to 1. Coordinates are built from
// per-dimension counts and are immutable values.
package coord

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Dimension is one of the four semantic axes.
type Dimension int

const (
	Love Dimension = iota
	Justice
	Power
	Wisdom
)

// NumDimensions is the number of semantic axes.
const NumDimensions = 4

// Dimensions lists every dimension in precedence order.
var Dimensions = [NumDimensions]Dimension{Love, Justice, Power, Wisdom}

var dimensionNames = [NumDimensions]string{"love", "justice", "power", "wisdom"}

func (d Dimension) String() string {
	if d < 0 || int(d) >= NumDimensions {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// MarshalText encodes the dimension by name.
func (d Dimension) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("coord: invalid dimension %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDimension does.
func (d *Dimension) UnmarshalText(b []byte) error {
	v, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Valid reports whether d is one of the four dimensions.
func (d Dimension) Valid() bool {
	return d >= Love && d <= Wisdom
}

// ParseDimension accepts a dimension name ("love", "Justice") or its
// single-letter abbreviation (L, J, P, W), case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "love", "l":
		return Love, nil
	case "justice", "j":
		return Justice, nil
	case "power", "p":
		return Power, nil
	case "wisdom", "w":
		return Wisdom, nil
	}
	return 0, fmt.Errorf("coord: unknown dimension %q", s)
}

// ErrInvalidInput is returned when a count is negative or not a number.
// It signals a bug upstream; inputs are never clamped.
var ErrInvalidInput = errors.New("coord: invalid coordinate input")

// Epsilon is the tolerance used for coordinate comparisons.
const Epsilon = 1e-9

// MaxDistance is the largest Euclidean distance between two points on the
// simplex (two distinct pure axes).
const MaxDistance = math.Sqrt2

// maxStdDev is the standard deviation of a pure-axis coordinate, the largest
// possible for a point on the simplex.
var maxStdDev = math.Sqrt(3) / 4

// Coordinate is a normalized point. The zero value is not a valid
// coordinate; use FromCounts, Neutral or Anchor.
type Coordinate struct {
	v [NumDimensions]float64
}

// Neutral is the fallback for inputs that carry no signal.
var Neutral = Coordinate{v: [NumDimensions]float64{0.25, 0.25, 0.25, 0.25}}

// Anchor is the perfectly balanced reference point, normalized (1,1,1,1).
// It is numerically identical to Neutral: "perfect balance" and "no signal"
// share a point in this model.
var Anchor = MustFromCounts(1, 1, 1, 1)

// FromCounts normalizes four non-negative counts into a Coordinate. An
// all-zero input yields Neutral.
func FromCounts(love, justice, power, wisdom float64) (Coordinate, error) {
	in := [NumDimensions]float64{love, justice, power, wisdom}
	var total float64
	for i, x := range in {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return Coordinate{}, fmt.Errorf("%w: %s=%v", ErrInvalidInput, Dimension(i), x)
		}
		total += x
	}
	if total == 0 {
		return Neutral, nil
	}
	var c Coordinate
	for i, x := range in {
		c.v[i] = x / total
	}
	return c, nil
}

// MustFromCounts is FromCounts for static tables; it panics on invalid input.
func MustFromCounts(love, justice, power, wisdom float64) Coordinate {
	c, err := FromCounts(love, justice, power, wisdom)
	if err != nil {
		panic(err)
	}
	return c
}

// Pure returns the coordinate lying entirely on one axis.
func Pure(d Dimension) Coordinate {
	var c Coordinate
	c.v[d] = 1
	return c
}

func (c Coordinate) Love() float64    { return c.v[Love] }
func (c Coordinate) Justice() float64 { return c.v[Justice] }
func (c Coordinate) Power() float64   { return c.v[Power] }
func (c Coordinate) Wisdom() float64  { return c.v[Wisdom] }

// Get returns the component for d.
func (c Coordinate) Get(d Dimension) float64 {
	return c.v[d]
}

// Components returns the four components in Love, Justice, Power, Wisdom order.
func (c Coordinate) Components() [NumDimensions]float64 {
	return c.v
}

// Distance is the Euclidean distance between two coordinates.
func (c Coordinate) Distance(o Coordinate) float64 {
	var sum float64
	for i := range c.v {
		d := c.v[i] - o.v[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine of the angle between c and o. Every
// valid coordinate has a positive norm, so the result is in [0, 1].
func (c Coordinate) CosineSimilarity(o Coordinate) float64 {
	var dot, na, nb float64
	for i := range c.v {
		dot += c.v[i] * o.v[i]
		na += c.v[i] * c.v[i]
		nb += o.v[i] * o.v[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Dominant returns the largest component's dimension. Ties resolve to the
// earlier dimension in Love, Justice, Power, Wisdom order.
func (c Coordinate) Dominant() Dimension {
	best := Love
	for _, d := range Dimensions[1:] {
		if c.v[d] > c.v[best] {
			best = d
		}
	}
	return best
}

// Clarity measures how concentrated the coordinate is, from 0 (balanced)
// to 1 (pure axis).
func (c Coordinate) Clarity() float64 {
	var mean float64
	for _, x := range c.v {
		mean += x
	}
	mean /= NumDimensions
	var variance float64
	for _, x := range c.v {
		variance += (x - mean) * (x - mean)
	}
	std := math.Sqrt(variance / NumDimensions)
	return math.Min(1, std/maxStdDev)
}

// DistanceFromAnchor is the distance to the balanced reference point.
func (c Coordinate) DistanceFromAnchor() float64 {
	return c.Distance(Anchor)
}

// Equal reports whether two coordinates match within Epsilon.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Distance(o) <= Epsilon
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(L=%.3f, J=%.3f, P=%.3f, W=%.3f)", c.v[Love], c.v[Justice], c.v[Power], c.v[Wisdom])
}

type jsonCoordinate struct {
	Love    float64 `json:"love"`
	Justice float64 `json:"justice"`
	Power   float64 `json:"power"`
	Wisdom  float64 `json:"wisdom"`
}

// MarshalJSON encodes the coordinate as an object keyed by dimension name.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCoordinate{c.v[Love], c.v[Justice], c.v[Power], c.v[Wisdom]})
}

// UnmarshalJSON decodes an object keyed by dimension name, normalizing it.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var j jsonCoordinate
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	out, err := FromCounts(j.Love, j.Justice, j.Power, j.Wisdom)
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// Counts accumulates per-dimension tallies.
type Counts [NumDimensions]float64

// Add increments the tally for d by n.
func (k *Counts) Add(d Dimension, n float64) {
	k[d] += n
}

// Total returns the sum of all tallies.
func (k Counts) Total() float64 {
	return k[Love] + k[Justice] + k[Power] + k[Wisdom]
}

// Coordinate normalizes the tallies.
func (k Counts) Coordinate() (Coordinate, error) {
	return FromCounts(k[Love], k[Justice], k[Power], k[Wisdom])
}
