package facemesh

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullMesh(x, y float64) [][]float64 {
	out := make([][]float64, landmark.MeshSize)
	for i := range out {
		out[i] = []float64{x, y}
	}
	return out
}

func newTestDetector(t *testing.T, handler func(req LandmarksRequest) (int, any)) *Detector {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LandmarksRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL
	return NewDetector(config, testLogger())
}

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	return img
}

func TestDetector_DetectLandmarks(t *testing.T) {
	t.Run("sends PNG and converts best face to pixels", func(t *testing.T) {
		det := newTestDetector(t, func(req LandmarksRequest) (int, any) {
			raw, err := base64.StdEncoding.DecodeString(req.Img)
			require.NoError(t, err)
			decoded, err := png.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 200, 100), decoded.Bounds())

			return http.StatusOK, LandmarksResponse{Faces: []Face{
				{Score: 0.6, Landmarks: fullMesh(0.9, 0.9)},
				{Score: 0.95, Landmarks: fullMesh(0.5055, 0.259)},
			}}
		})

		lm, err := det.DetectLandmarks(context.Background(), testImage(200, 100))

		require.NoError(t, err)
		require.Len(t, lm, landmark.MeshSize)
		// int(0.5055*200)=101, int(0.259*100)=25
		assert.Equal(t, landmark.Pt(101, 25), lm[0])
	})

	t.Run("no face is a nil set", func(t *testing.T) {
		det := newTestDetector(t, func(LandmarksRequest) (int, any) {
			return http.StatusOK, LandmarksResponse{}
		})

		lm, err := det.DetectLandmarks(context.Background(), testImage(10, 10))

		require.NoError(t, err)
		assert.Nil(t, lm)
	})

	t.Run("short mesh is returned for the caller to validate", func(t *testing.T) {
		det := newTestDetector(t, func(LandmarksRequest) (int, any) {
			return http.StatusOK, LandmarksResponse{Faces: []Face{{Score: 1, Landmarks: fullMesh(0.1, 0.1)[:100]}}}
		})

		lm, err := det.DetectLandmarks(context.Background(), testImage(10, 10))

		require.NoError(t, err)
		assert.Len(t, lm, 100)
	})

	t.Run("malformed landmark", func(t *testing.T) {
		det := newTestDetector(t, func(LandmarksRequest) (int, any) {
			return http.StatusOK, LandmarksResponse{Faces: []Face{{Score: 1, Landmarks: [][]float64{{0.1}}}}}
		})

		_, err := det.DetectLandmarks(context.Background(), testImage(10, 10))

		assert.ErrorIs(t, err, ErrMalformedLandmark)
	})

	t.Run("sidecar failure", func(t *testing.T) {
		det := newTestDetector(t, func(LandmarksRequest) (int, any) {
			return http.StatusInternalServerError, map[string]string{"error": "boom"}
		})

		_, err := det.DetectLandmarks(context.Background(), testImage(10, 10))

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty image", func(t *testing.T) {
		det := NewDetector(DefaultConfig(), testLogger())

		_, err := det.DetectLandmarks(context.Background(), image.NewNRGBA(image.Rectangle{}))

		assert.ErrorIs(t, err, ErrEmptyImage)
	})
}
