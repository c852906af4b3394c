// Package match scores photometric left/right similarity of face regions
// with single-scale SSIM.
package match

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
	"github.com/JungUiJin/faicial-ai-test/internal/score"
)

// Kind selects the comparison algorithm for a part.
type Kind int

const (
	// MirrorPair compares a left crop against the mirror of its right partner.
	MirrorPair Kind = iota + 1
	// SelfSplit halves a single midline crop and compares the halves.
	SelfSplit
)

func (k Kind) String() string {
	switch k {
	case MirrorPair:
		return "mirror_pair"
	case SelfSplit:
		return "self_split"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Comparison is one entry of a match plan. Left and Right are used by
// MirrorPair, Region by SelfSplit.
type Comparison struct {
	Kind   Kind
	Part   string
	Left   string
	Right  string
	Region string
}

// DefaultPlan scores eyes, ears and chin by mirror pair and nose and mouth by
// self split.
var DefaultPlan = []Comparison{
	{Kind: MirrorPair, Part: landmark.PartEyes, Left: landmark.RegionLeftEye, Right: landmark.RegionRightEye},
	{Kind: MirrorPair, Part: landmark.PartEars, Left: landmark.RegionLeftEar, Right: landmark.RegionRightEar},
	{Kind: SelfSplit, Part: landmark.PartNose, Region: landmark.RegionNose},
	{Kind: SelfSplit, Part: landmark.PartMouth, Region: landmark.RegionMouth},
	{Kind: MirrorPair, Part: landmark.PartChin, Left: landmark.RegionLeftChin, Right: landmark.RegionRightChin},
}

// Scores maps a part to its match score. A nil value means the regions
// needed for the part were absent.
type Scores map[string]*float64

// Value returns the score for part and whether it is present.
func (s Scores) Value(part string) (float64, bool) {
	v, ok := s[part]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Matcher runs a comparison plan over a region map.
type Matcher struct {
	plan []Comparison
}

// NewMatcher returns a Matcher for DefaultPlan.
func NewMatcher() *Matcher {
	return NewMatcherWithPlan(DefaultPlan)
}

// NewMatcherWithPlan returns a Matcher for a custom plan.
func NewMatcherWithPlan(plan []Comparison) *Matcher {
	return &Matcher{plan: plan}
}

// Match scores every part of the plan. The returned map is a copy of regions
// in which each self-split region is replaced by its left_ and right_ halves.
// The input map is not modified.
func (m *Matcher) Match(regions region.Map) (Scores, region.Map, error) {
	scores := make(Scores, len(m.plan))
	out := make(region.Map, len(regions)+len(m.plan))
	for k, v := range regions {
		out[k] = v
	}

	for _, c := range m.plan {
		switch c.Kind {
		case MirrorPair:
			left, okL := regions[c.Left]
			right, okR := regions[c.Right]
			if !okL || !okR {
				scores[c.Part] = nil
				continue
			}
			s, err := CompareMirrorPair(left.Img, right.Img)
			if err != nil {
				return nil, nil, fmt.Errorf("match %s: %w", c.Part, err)
			}
			scores[c.Part] = &s

		case SelfSplit:
			r, ok := regions[c.Region]
			if !ok {
				scores[c.Part] = nil
				continue
			}
			s, left, right, err := CompareSelfSplit(r.Img)
			if err != nil {
				return nil, nil, fmt.Errorf("match %s: %w", c.Part, err)
			}
			scores[c.Part] = &s
			delete(out, c.Region)
			out["left_"+c.Region] = region.Image{Name: "left_" + c.Region, Img: left}
			out["right_"+c.Region] = region.Image{Name: "right_" + c.Region, Img: right}

		default:
			return nil, nil, fmt.Errorf("match %s: unknown comparison %s", c.Part, c.Kind)
		}
	}

	return scores, out, nil
}

// Match is a convenience wrapper around NewMatcher().Match.
func Match(regions region.Map) (Scores, region.Map, error) {
	return NewMatcher().Match(regions)
}

// CompareMirrorPair converts both images to intensity, mirrors a, resizes b
// to a's size when they differ and returns SSIM scaled to [0,100].
func CompareMirrorPair(a, b image.Image) (float64, error) {
	mirrored := imaging.FlipH(grayscale(a))
	other := imaging.Clone(grayscale(b))
	if mirrored.Bounds().Size() != other.Bounds().Size() {
		other = imaging.Resize(other, mirrored.Bounds().Dx(), mirrored.Bounds().Dy(), imaging.CatmullRom)
	}
	return ssimPercent(mirrored, other)
}

// CompareSelfSplit splits img at its horizontal midpoint, mirrors the right
// half, resizes it to the left half when the width is odd and returns the SSIM
// score together with the unmirrored halves.
func CompareSelfSplit(img image.Image) (float64, *image.NRGBA, *image.NRGBA, error) {
	b := img.Bounds()
	mid := b.Dx() / 2
	if mid < WindowSize || b.Dy() < WindowSize {
		return 0, nil, nil, fmt.Errorf("%w: %dx%d halves", ErrWindowTooLarge, mid, b.Dy())
	}

	left := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+mid, b.Max.Y))
	right := imaging.Crop(img, image.Rect(b.Min.X+mid, b.Min.Y, b.Max.X, b.Max.Y))

	flipped := imaging.FlipH(right)
	if flipped.Bounds().Size() != left.Bounds().Size() {
		flipped = imaging.Resize(flipped, left.Bounds().Dx(), left.Bounds().Dy(), imaging.CatmullRom)
	}

	s, err := ssimPercent(left, flipped)
	if err != nil {
		return 0, nil, nil, err
	}
	return s, left, right, nil
}

func ssimPercent(a, b image.Image) (float64, error) {
	v, err := SSIM(Luma(a), Luma(b))
	if err != nil {
		return 0, err
	}
	return score.Round2(v * 100), nil
}

// grayscale returns img converted to 8-bit intensity.
func grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Pix[y*g.Stride+x] = luma8(c.R, c.G, c.B)
		}
	}
	return g
}
