package mock

import (
	"context"
	"image"
	"math"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/provider"
)

// MinFaceSize is the smallest image side on which the mock finds a face
const MinFaceSize = 32

// Face box as fractions of the image
const (
	faceLeft   = 0.2
	faceTop    = 0.1
	faceWidth  = 0.6
	faceHeight = 0.8
)

var (
	_ provider.LandmarkDetector = (*Detector)(nil)
	_ provider.FaceGate         = (*Gate)(nil)
)

// Detector returns a deterministic level face mesh fitted to the image
// bounds. Every named left landmark mirrors its right partner, so results
// only depend on the image size.
type Detector struct{}

// New creates a mock landmark detector
func New() *Detector {
	return &Detector{}
}

// DetectLandmarks returns nil for images smaller than MinFaceSize on either side
func (d *Detector) DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() < MinFaceSize || b.Dy() < MinFaceSize {
		return nil, nil
	}
	return Mesh(b), nil
}

// Mesh builds the synthetic mesh for bounds. Coordinates are placed in a face
// frame where u runs -1..1 across the face and v runs 0..1 from forehead to
// chin.
func Mesh(b image.Rectangle) landmark.Set {
	w, h := float64(b.Dx()), float64(b.Dy())
	cx := float64(b.Min.X) + w*(faceLeft+faceWidth/2)
	top := float64(b.Min.Y) + h*faceTop
	halfW := w * faceWidth / 2
	faceH := h * faceHeight

	at := func(u, v float64) landmark.Point {
		return landmark.Pt(cx+u*halfW, top+v*faceH)
	}

	s := make(landmark.Set, landmark.MeshSize)
	for i := range s {
		theta := 2 * math.Pi * float64(i) / landmark.MeshSize
		s[i] = at(0.85*math.Sin(theta), 0.5-0.45*math.Cos(theta))
	}

	for idx, uv := range midline {
		s[idx] = at(0, uv[1])
	}
	for _, p := range mirrored {
		s[p.left] = at(-p.u, p.v)
		s[p.right] = at(p.u, p.v)
	}
	return s
}

var midline = map[int][2]float64{
	landmark.Forehead: {0, 0},
	landmark.Chin:     {0, 1},
	landmark.NoseTip:  {0, 0.60},
	2:                 {0, 0.63},
	landmark.UpperLip: {0, 0.74},
	14:                {0, 0.78},
}

type mirrorPoint struct {
	left, right int
	u, v        float64
}

var mirrored = []mirrorPoint{
	// face edge and ears
	{234, 454, 1.00, 0.45},
	{93, 323, 0.98, 0.55},
	{172, 397, 0.75, 0.80},
	// eyes
	{33, 263, 0.62, 0.38},
	{133, 362, 0.22, 0.38},
	{160, 387, 0.50, 0.34},
	{159, 386, 0.42, 0.33},
	{158, 385, 0.34, 0.34},
	{157, 384, 0.28, 0.35},
	{173, 398, 0.24, 0.37},
	// nose
	{98, 327, 0.15, 0.60},
	// mouth
	{61, 291, 0.28, 0.76},
	{78, 308, 0.20, 0.76},
	{95, 324, 0.12, 0.79},
	// jaw
	{150, 379, 0.55, 0.92},
	{149, 378, 0.40, 0.96},
	{176, 400, 0.25, 0.99},
}

// Gate reports one centered face for any image large enough to decode
type Gate struct{}

// NewGate creates a mock face gate
func NewGate() *Gate {
	return &Gate{}
}

// DetectFaces simulates face detection
func (g *Gate) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 100 {
		return nil, domain.ErrInvalidImage
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      faceLeft,
				Y:      faceTop,
				Width:  faceWidth,
				Height: faceHeight,
			},
			Confidence: 99.9,
		},
	}, nil
}
