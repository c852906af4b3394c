package landmark

import (
	"errors"
	"fmt"
)

// MeshSize is the number of points in a complete face mesh.
const MeshSize = 468

// ErrInsufficientLandmarks is returned when a set has fewer than MeshSize points.
var ErrInsufficientLandmarks = errors.New("insufficient landmark points")

// Set is an ordered face mesh indexed by the anatomical numbering of the
// detector. Sets are never mutated in place; transforms return new sets.
type Set []Point

// Validate reports whether the set holds a complete mesh.
func (s Set) Validate() error {
	if len(s) < MeshSize {
		return fmt.Errorf("%w: got %d, need %d", ErrInsufficientLandmarks, len(s), MeshSize)
	}
	return nil
}

// Has reports whether idx addresses a point in the set.
func (s Set) Has(idx int) bool {
	return idx >= 0 && idx < len(s)
}

// Select returns the points at the given indices, silently skipping indices
// that fall outside the set.
func (s Set) Select(indices []int) []Point {
	points := make([]Point, 0, len(indices))
	for _, idx := range indices {
		if s.Has(idx) {
			points = append(points, s[idx])
		}
	}
	return points
}

// Map returns a new set with fn applied to every point.
func (s Set) Map(fn func(Point) Point) Set {
	out := make(Set, len(s))
	for i, p := range s {
		out[i] = fn(p)
	}
	return out
}

// Scale returns a new set with every coordinate multiplied by f.
func (s Set) Scale(f float64) Set {
	return s.Map(func(p Point) Point { return p.Scale(f) })
}

// Translate returns a new set shifted by d.
func (s Set) Translate(d Point) Set {
	return s.Map(func(p Point) Point { return p.Add(d) })
}

// MidlineX is the x coordinate of the face midline: the mean of the two
// face-edge anchors.
func (s Set) MidlineX() float64 {
	return (s[LeftFaceEdge].X + s[RightFaceEdge].X) / 2
}

// FaceCenter returns the midline x and the vertical midpoint between the
// forehead and chin anchors.
func (s Set) FaceCenter() Point {
	return Point{
		X: s.MidlineX(),
		Y: (s[Forehead].Y + s[Chin].Y) / 2,
	}
}

// EyeAnchors returns the outer eye corners used for alignment and for the
// projection axis.
func (s Set) EyeAnchors() (left, right Point) {
	return s[LeftEyeOuter], s[RightEyeOuter]
}
