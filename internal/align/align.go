// Package align levels a face so the line through the outer eye corners is
// horizontal.
//
// The convention is fixed for the whole pipeline: the image rotates about its
// own center onto an expanded canvas, the anchors are landmarks 33 and 263,
// and landmarks are re-detected on the rotated image rather than rotated.
package align

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// ErrNoAlignment is returned when the rotated image yields no face. Callers
// fall back to the unaligned image and landmarks.
var ErrNoAlignment = errors.New("no face detected after alignment")

// Detector finds landmarks in an image. A nil set with a nil error means no
// face was found.
type Detector interface {
	DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error)
}

// Result is an aligned image with its re-detected landmarks.
type Result struct {
	Image     *image.NRGBA
	Landmarks landmark.Set
	// Angle is the counter-clockwise rotation applied, in degrees.
	Angle     float64
	Transform Transform
}

// Angle returns the tilt of the eye-anchor line in degrees, measured in
// image space (y down). A positive angle means the right anchor sits lower.
func Angle(lm landmark.Set) float64 {
	left, right := lm.EyeAnchors()
	return math.Atan2(right.Y-left.Y, right.X-left.X) * 180 / math.Pi
}

// Rotate turns img counter-clockwise by angle degrees about its center onto
// an expanded canvas filled with black, and returns the point transform from
// source to rotated coordinates.
func Rotate(img image.Image, angle float64) (*image.NRGBA, Transform) {
	rotated := imaging.Rotate(img, angle, color.Black)
	return rotated, NewTransform(img.Bounds().Size(), rotated.Bounds().Size(), angle)
}

// DetectAligned rotates img by angle degrees about its center and runs the
// detector on the rotated image. A nil set means no face was found.
func DetectAligned(ctx context.Context, d Detector, img image.Image, angle float64) (landmark.Set, *image.NRGBA, Transform, error) {
	rotated, tr := Rotate(img, angle)
	lm, err := d.DetectLandmarks(ctx, rotated)
	if err != nil {
		return nil, nil, Transform{}, err
	}
	return lm, rotated, tr, nil
}

// Aligner levels faces by rotating and re-detecting.
type Aligner struct {
	detector Detector
}

// NewAligner creates an Aligner that re-detects with d.
func NewAligner(d Detector) *Aligner {
	return &Aligner{detector: d}
}

// Align rotates img by the eye-anchor angle of lm and re-detects landmarks on
// the result. It returns ErrNoAlignment when the rotated image has no face.
func (a *Aligner) Align(ctx context.Context, img image.Image, lm landmark.Set) (Result, error) {
	if err := lm.Validate(); err != nil {
		return Result{}, fmt.Errorf("align: %w", err)
	}

	angle := Angle(lm)
	aligned, rotated, tr, err := DetectAligned(ctx, a.detector, img, angle)
	if err != nil {
		return Result{}, fmt.Errorf("align: detect rotated: %w", err)
	}
	if aligned == nil {
		return Result{}, fmt.Errorf("%w (rotation %.2f deg)", ErrNoAlignment, angle)
	}

	return Result{
		Image:     rotated,
		Landmarks: aligned,
		Angle:     angle,
		Transform: tr,
	}, nil
}
