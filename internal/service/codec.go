package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
)

const pngDataURIPrefix = "data:image/png;base64,"

// DefaultMaxImagePixels bounds the decoded area of an upload. The byte limit
// alone does not, since a small file can declare huge dimensions.
const DefaultMaxImagePixels = 40_000_000

// decodeImage decodes jpeg, png or webp bytes, applying the EXIF orientation.
// The header is checked against maxPixels before any pixel buffer is allocated.
func decodeImage(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("empty image"))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("decode image header: %w", err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("image has no pixels"))
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, domain.ErrInvalidInput.WithError(
			fmt.Errorf("image is %dx%d, above the %d pixel limit", cfg.Width, cfg.Height, maxPixels))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("decode image: %w", err))
	}
	if img.Bounds().Empty() {
		return nil, domain.ErrInvalidInput.WithError(fmt.Errorf("image has no pixels"))
	}
	return img, nil
}

func encodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func encodeRegions(regions region.Map) (map[string]string, error) {
	out := make(map[string]string, len(regions))
	for _, name := range regions.Names() {
		uri, err := encodeDataURI(regions[name].Img)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		out[name] = uri
	}
	return out, nil
}
