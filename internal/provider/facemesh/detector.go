package facemesh

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/provider"
)

var _ provider.LandmarkDetector = (*Detector)(nil)

// Detector implements provider.LandmarkDetector on top of the sidecar
type Detector struct {
	client *Client
	logger *slog.Logger
}

// NewDetector creates a new facemesh detector
func NewDetector(config Config, logger *slog.Logger) *Detector {
	return &Detector{
		client: NewClient(config),
		logger: logger,
	}
}

// Client exposes the underlying sidecar client for health checks
func (d *Detector) Client() *Client {
	return d.client
}

// DetectLandmarks sends img as PNG and converts the highest scoring mesh to
// pixel coordinates, truncating to whole pixels.
func (d *Detector) DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	resp, err := d.client.Landmarks(ctx, base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}

	if len(resp.Faces) == 0 {
		d.logger.Debug("facemesh found no face", "width", b.Dx(), "height", b.Dy())
		return nil, nil
	}

	best := resp.Faces[0]
	for _, f := range resp.Faces[1:] {
		if f.Score > best.Score {
			best = f
		}
	}

	lm, err := toPixels(best.Landmarks, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	d.logger.Debug("facemesh landmarks",
		"faces", len(resp.Faces),
		"score", best.Score,
		"points", len(lm),
	)

	return lm, nil
}

func toPixels(points [][]float64, w, h int) (landmark.Set, error) {
	out := make(landmark.Set, len(points))
	for i, p := range points {
		if len(p) < 2 {
			return nil, fmt.Errorf("%w: index %d", ErrMalformedLandmark, i)
		}
		out[i] = landmark.Pt(
			math.Trunc(p[0]*float64(w)),
			math.Trunc(p[1]*float64(h)),
		)
	}
	return out, nil
}
