// Package visual projects highlighted landmarks onto the face symmetry axis
// and renders the annotated report image.
package visual

import (
	"errors"
	"math"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// ErrDegenerateAxis is returned when an axis has a zero-length direction.
var ErrDegenerateAxis = errors.New("symmetry axis has zero length")

// Axis is a line through Origin along the unit vector Dir.
type Axis struct {
	Origin landmark.Point
	Dir    landmark.Point
}

// NewAxis returns the axis through a and b.
func NewAxis(a, b landmark.Point) (Axis, error) {
	return AxisAlong(a, b.Sub(a))
}

// AxisAlong returns the axis through origin in direction dir.
func AxisAlong(origin, dir landmark.Point) (Axis, error) {
	l := dir.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Axis{}, ErrDegenerateAxis
	}
	return Axis{Origin: origin, Dir: dir.Scale(1 / l)}, nil
}

// AxisFromLandmarks returns the axis through the face center, parallel to the
// line through the outer eye anchors.
func AxisFromLandmarks(lm landmark.Set) (Axis, error) {
	axis, err := NewAxis(lm.EyeAnchors())
	if err != nil {
		return Axis{}, err
	}
	axis.Origin = lm.FaceCenter()
	return axis, nil
}

// Project returns the foot of the perpendicular from p onto the axis and the
// perpendicular distance.
func (a Axis) Project(p landmark.Point) (landmark.Point, float64) {
	v := p.Sub(a.Origin)
	t := v.Dot(a.Dir)
	foot := a.Origin.Add(a.Dir.Scale(t))
	return foot, math.Abs(v.Cross(a.Dir))
}

// Endpoints returns two points on the axis at distance length either side of
// the origin.
func (a Axis) Endpoints(length float64) (landmark.Point, landmark.Point) {
	d := a.Dir.Scale(length)
	return a.Origin.Sub(d), a.Origin.Add(d)
}

// Distances maps each highlighted landmark name to its perpendicular distance
// from the axis, rounded to whole pixels.
type Distances map[string]float64

// Total returns the sum of all distances.
func (d Distances) Total() float64 {
	var sum float64
	for _, v := range d {
		sum += v
	}
	return sum
}

// ProjectionDistances computes Distances for landmark.Highlights. Highlights
// whose index is outside lm are skipped.
func ProjectionDistances(lm landmark.Set, axis Axis) (Distances, error) {
	if axis.Dir.Len() == 0 {
		return nil, ErrDegenerateAxis
	}
	out := make(Distances, len(landmark.Highlights))
	for _, h := range landmark.Highlights {
		if !lm.Has(h.Index) {
			continue
		}
		_, dist := axis.Project(lm[h.Index])
		out[h.Name] = math.Round(dist)
	}
	return out, nil
}
