// Package region crops named anatomical regions out of a face image.
package region

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

var (
	// ErrEmptyRegion means a configured region resolved to zero landmark
	// points. This is a table defect, not a property of the input image.
	ErrEmptyRegion = errors.New("region resolves to no landmarks")

	// ErrOutsideImage means the padded box of a region lies entirely outside
	// the image, leaving nothing to crop.
	ErrOutsideImage = errors.New("region lies outside the image")
)

// Image is a cropped region buffer tagged with its region name.
type Image struct {
	Name string
	Img  *image.NRGBA
}

// Map indexes region images by name.
type Map map[string]Image

// Names returns the region names present in m, in landmark.FaceRegions order
// followed by any derived halves.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, r := range landmark.FaceRegions {
		if _, ok := m[r.Name]; ok {
			names = append(names, r.Name)
			seen[r.Name] = true
		}
	}
	for _, n := range DerivedNames {
		if _, ok := m[n]; ok && !seen[n] {
			names = append(names, n)
		}
	}
	return names
}

// DerivedNames are the halves produced when a midline region is split.
var DerivedNames = []string{"left_nose", "right_nose", "left_mouth", "right_mouth"}

// Segmenter crops every configured region.
type Segmenter struct {
	regions []landmark.Region
}

// NewSegmenter returns a Segmenter over landmark.FaceRegions.
func NewSegmenter() *Segmenter {
	return &Segmenter{regions: landmark.FaceRegions}
}

// Segment crops each region from img using the landmark bounding box plus
// the region padding.
func (s *Segmenter) Segment(img image.Image, lm landmark.Set) (Map, error) {
	out := make(Map, len(s.regions))
	for _, r := range s.regions {
		box, err := PaddedBox(img.Bounds(), lm, r)
		if err != nil {
			return nil, err
		}
		out[r.Name] = Image{Name: r.Name, Img: imaging.Crop(img, box)}
	}
	return out, nil
}

// Segment is a convenience wrapper around NewSegmenter().Segment.
func Segment(img image.Image, lm landmark.Set) (Map, error) {
	return NewSegmenter().Segment(img, lm)
}

// PaddedBox computes the crop rectangle for r. Padding is a fraction of the
// full image width and height, truncated to whole pixels, and the result is
// clamped to bounds.
func PaddedBox(bounds image.Rectangle, lm landmark.Set, r landmark.Region) (image.Rectangle, error) {
	points := lm.Select(r.Indices)
	if len(points) == 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrEmptyRegion, r.Name)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	w, h := bounds.Dx(), bounds.Dy()
	pad := landmark.PaddingFor(r.Name)
	top := math.Trunc(pad.Top * float64(h))
	bottom := math.Trunc(pad.Bottom * float64(h))
	left := math.Trunc(pad.Left * float64(w))
	right := math.Trunc(pad.Right * float64(w))

	box := image.Rect(
		clamp(int(math.Round(minX-left)), 0, w),
		clamp(int(math.Round(minY-top)), 0, h),
		clamp(int(math.Round(maxX+right)), 0, w),
		clamp(int(math.Round(maxY+bottom)), 0, h),
	).Add(bounds.Min)

	if box.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrOutsideImage, r.Name)
	}
	return box, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
