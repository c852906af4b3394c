package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

// pngHeader returns a PNG signature and IHDR chunk declaring w x h RGBA
// pixels, with no image data after it.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8
	ihdr[9] = 6
	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	small := encodePNG(t, faceImage(20, 20))

	tests := []struct {
		name      string
		data      []byte
		maxPixels int
		want      *domain.AppError
	}{
		{name: "within budget", data: small, maxPixels: 400},
		{name: "no budget", data: small, maxPixels: 0},
		{name: "one pixel over budget", data: small, maxPixels: 399, want: domain.ErrInvalidInput},
		{name: "huge declared dimensions", data: pngHeader(40000, 40000), maxPixels: DefaultMaxImagePixels, want: domain.ErrInvalidInput},
		{name: "empty upload", data: nil, maxPixels: DefaultMaxImagePixels, want: domain.ErrInvalidImage},
		{name: "unknown format", data: []byte("GIF89a not really"), maxPixels: DefaultMaxImagePixels, want: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeImage(tt.data, tt.maxPixels)
			if tt.want != nil {
				requireAppError(t, err, tt.want)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 20, img.Bounds().Dx())
		})
	}
}

func TestAnalysisService_RejectsOversizedImageBeforeDetection(t *testing.T) {
	det := new(MockDetector)
	svc := newTestService(t, det)

	_, err := svc.Analyze(context.Background(), pngHeader(40000, 40000), uuid.Nil)
	requireAppError(t, err, domain.ErrInvalidInput)

	svc = svc.WithMaxImagePixels(100)
	_, err = svc.DebugLandmarks(context.Background(), encodePNG(t, faceImage(20, 20)))
	requireAppError(t, err, domain.ErrInvalidInput)

	det.AssertNotCalled(t, "DetectLandmarks", mock.Anything, mock.Anything)
}
