package provider

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	faces := []DetectedFace{
		{Confidence: 91.5, BoundingBox: BoundingBox{X: 0.1}},
		{Confidence: 99.2, BoundingBox: BoundingBox{X: 0.5}},
		{Confidence: 97.0, BoundingBox: BoundingBox{X: 0.7}},
	}
	best, ok := Best(faces)
	require.True(t, ok)
	assert.Equal(t, 0.5, best.BoundingBox.X)
}

func TestBoundingBox_Rect(t *testing.T) {
	tests := []struct {
		name   string
		box    BoundingBox
		margin float64
		want   image.Rectangle
	}{
		{
			name: "no margin",
			box:  BoundingBox{X: 0.25, Y: 0.2, Width: 0.5, Height: 0.4},
			want: image.Rect(100, 40, 300, 120),
		},
		{
			name:   "margin grows every side",
			box:    BoundingBox{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5},
			margin: 0.1,
			want:   image.Rect(80, 40, 320, 160),
		},
		{
			name:   "clamped to image",
			box:    BoundingBox{X: 0.0, Y: 0.0, Width: 0.9, Height: 0.9},
			margin: 0.35,
			want:   image.Rect(0, 0, 400, 200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.Rect(400, 200, tt.margin))
		})
	}
}

type slowDetector struct {
	active  int32
	maxSeen int32
}

func (d *slowDetector) DetectLandmarks(ctx context.Context, img image.Image) (landmark.Set, error) {
	n := atomic.AddInt32(&d.active, 1)
	for {
		seen := atomic.LoadInt32(&d.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&d.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&d.active, -1)
	return make(landmark.Set, landmark.MeshSize), nil
}

func TestSerialized(t *testing.T) {
	inner := &slowDetector{}
	det := Serialized(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lm, err := det.DetectLandmarks(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)))
			assert.NoError(t, err)
			assert.Len(t, lm, landmark.MeshSize)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.maxSeen))
}
