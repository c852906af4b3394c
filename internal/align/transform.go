package align

import (
	"image"
	"math"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// Transform maps source pixel coordinates into a canvas rotated
// counter-clockwise about the image center. Pixel centers are used as the
// rotation origin, so a w-pixel axis pivots on (w/2 - 0.5).
type Transform struct {
	Angle  float64
	SrcOff landmark.Point
	DstOff landmark.Point
	sin    float64
	cos    float64
}

// NewTransform builds the transform for a src-sized image rotated by angle
// onto a dst-sized canvas.
func NewTransform(src, dst image.Point, angle float64) Transform {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	return Transform{
		Angle:  angle,
		SrcOff: landmark.Pt(float64(src.X)/2-0.5, float64(src.Y)/2-0.5),
		DstOff: landmark.Pt(float64(dst.X)/2-0.5, float64(dst.Y)/2-0.5),
		sin:    sin,
		cos:    cos,
	}
}

// Apply maps a source point into the rotated canvas.
func (t Transform) Apply(p landmark.Point) landmark.Point {
	d := p.Sub(t.SrcOff)
	return landmark.Pt(
		d.X*t.cos+d.Y*t.sin+t.DstOff.X,
		-d.X*t.sin+d.Y*t.cos+t.DstOff.Y,
	)
}

// ApplySet maps every point of lm into the rotated canvas.
func (t Transform) ApplySet(lm landmark.Set) landmark.Set {
	return lm.Map(t.Apply)
}

// Drift is the mean distance between re-detected landmarks and the source
// landmarks carried through the transform. It measures how far the detector
// moved the mesh after rotation.
func (t Transform) Drift(source, redetected landmark.Set) float64 {
	n := min(len(source), len(redetected))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += landmark.Distance(t.Apply(source[i]), redetected[i])
	}
	return sum / float64(n)
}
