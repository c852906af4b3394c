package provider

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// LandmarkDetector finds the face mesh in an image
type LandmarkDetector interface {
	// DetectLandmarks returns the mesh of the best face in pixel coordinates.
	// A nil set with a nil error means no face was found.
	DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error)
}

// FaceGate locates whole faces before landmark detection
type FaceGate interface {
	// DetectFaces returns every face found in the encoded image.
	// An empty slice means no face; it is not an error.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox is the face area as fractions of the image width and height
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Best returns the face with the highest confidence.
func Best(faces []DetectedFace) (DetectedFace, bool) {
	if len(faces) == 0 {
		return DetectedFace{}, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Confidence > best.Confidence {
			best = f
		}
	}
	return best, true
}

// Rect converts the box to pixels for a w x h image, grown by margin times
// the box size on every side and clamped to the image.
func (b BoundingBox) Rect(w, h int, margin float64) image.Rectangle {
	fw, fh := float64(w), float64(h)
	x0 := (b.X - b.Width*margin) * fw
	y0 := (b.Y - b.Height*margin) * fh
	x1 := (b.X + b.Width*(1+margin)) * fw
	y1 := (b.Y + b.Height*(1+margin)) * fh
	return image.Rect(round(x0), round(y0), round(x1), round(y1)).Intersect(image.Rect(0, 0, w, h))
}

func round(v float64) int {
	return int(math.Round(v))
}

type serialized struct {
	mu       sync.Mutex
	detector LandmarkDetector
}

// Serialized guards a detector whose model is not reentrant so that only one
// inference runs at a time.
func Serialized(d LandmarkDetector) LandmarkDetector {
	return &serialized{detector: d}
}

func (s *serialized) DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.DetectLandmarks(ctx, img)
}
