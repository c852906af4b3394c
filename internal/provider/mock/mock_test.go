package mock

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/align"
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
	"github.com/JungUiJin/faicial-ai-test/internal/symmetry"
)

func TestDetector_DetectLandmarks(t *testing.T) {
	d := New()
	ctx := context.Background()

	tests := []struct {
		name     string
		bounds   image.Rectangle
		wantFace bool
	}{
		{name: "regular image", bounds: image.Rect(0, 0, 400, 500), wantFace: true},
		{name: "offset bounds", bounds: image.Rect(10, 20, 110, 220), wantFace: true},
		{name: "too small", bounds: image.Rect(0, 0, 20, 400), wantFace: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm, err := d.DetectLandmarks(ctx, image.NewGray(tt.bounds))
			require.NoError(t, err)
			if !tt.wantFace {
				assert.Nil(t, lm)
				return
			}
			require.NoError(t, lm.Validate())
			for _, p := range lm {
				assert.True(t, image.Pt(int(p.X), int(p.Y)).In(tt.bounds), "%v outside %v", p, tt.bounds)
			}
		})
	}
}

func TestDetector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().DetectLandmarks(ctx, image.NewGray(image.Rect(0, 0, 100, 100)))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMesh_IsLevelAndMirrored(t *testing.T) {
	lm := Mesh(image.Rect(0, 0, 300, 400))

	assert.Equal(t, 0.0, align.Angle(lm))
	midX := lm.MidlineX()
	assert.InDelta(t, 150, midX, 1e-9)
	for _, p := range mirrored {
		assert.InDelta(t, lm[p.left].Y, lm[p.right].Y, 1e-9)
		assert.InDelta(t, midX-lm[p.left].X, lm[p.right].X-midX, 1e-9)
	}

	res, err := symmetry.Score(lm)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Parts[landmark.PartEyes])
	assert.Equal(t, 100.0, res.Parts[landmark.PartMouth])
	assert.Equal(t, 100.0, res.Parts[landmark.PartNose])
}

func TestMesh_RegionsAreCroppable(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 500))

	regions, err := region.Segment(img, Mesh(img.Bounds()))

	require.NoError(t, err)
	for name, r := range regions {
		assert.GreaterOrEqual(t, r.Img.Bounds().Dx(), 14, name)
		assert.GreaterOrEqual(t, r.Img.Bounds().Dy(), 7, name)
	}
}

func TestGate_DetectFaces(t *testing.T) {
	g := NewGate()

	faces, err := g.DetectFaces(context.Background(), make([]byte, 5000))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, faceWidth, faces[0].BoundingBox.Width)

	_, err = g.DetectFaces(context.Background(), make([]byte, 10))
	assert.Error(t, err)
}
