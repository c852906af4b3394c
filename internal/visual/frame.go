package visual

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// Report frame geometry.
const (
	FrameWidth  = 800
	FrameHeight = 1000

	frameRatio   = 4.0 / 5.0
	faceHRatio   = 0.5
	faceVRatio   = 6.0 / 9.0
	minOccupancy = 0.5
	maxZoom      = 1.25
)

// Frame crops img to a 4:5 window centered on the face, zooming in by at most
// maxZoom so the face fills at least half of the frame height, and scales the
// result to FrameWidth x FrameHeight. The landmarks are carried through the
// same transforms.
func Frame(img image.Image, lm landmark.Set) (*image.NRGBA, landmark.Set) {
	b := img.Bounds()
	lm = lm.Translate(landmark.Pt(-float64(b.Min.X), -float64(b.Min.Y)))
	ow, oh := float64(b.Dx()), float64(b.Dy())

	center := lm.FaceCenter()
	faceH := lm[landmark.Chin].Y - lm[landmark.Forehead].Y

	var cropW, cropH int
	if ow/oh >= frameRatio {
		cropH = b.Dy()
		cropW = int(float64(cropH) * frameRatio)
	} else {
		cropW = b.Dx()
		cropH = int(float64(cropW) / frameRatio)
	}
	if cropW == 0 || cropH == 0 {
		cropW, cropH = b.Dx(), b.Dy()
	}
	cw, ch := float64(cropW), float64(cropH)

	scale := 1.0
	for _, need := range []float64{
		ratio(cw*faceHRatio, center.X),
		ratio(cw*(1-faceHRatio), ow-center.X),
		ratio(ch*faceVRatio, center.Y),
		ratio(ch*(1-faceVRatio), oh-center.Y),
		ratio(minOccupancy*ch, faceH),
	} {
		scale = math.Max(scale, need)
	}
	scale = math.Min(scale, maxZoom)

	newW, newH := int(ow*scale), int(oh*scale)
	var scaled *image.NRGBA
	if scale == 1 {
		scaled = imaging.Clone(img)
	} else {
		scaled = imaging.Resize(img, newW, newH, imaging.Lanczos)
	}
	lm = lm.Scale(scale)
	center = center.Scale(scale)

	cropW = min(cropW, newW)
	cropH = min(cropH, newH)
	left := max(0, min(int(center.X-float64(cropW)*faceHRatio), newW-cropW))
	top := max(0, min(int(center.Y-float64(cropH)*faceVRatio), newH-cropH))

	cropped := imaging.Crop(scaled, image.Rect(left, top, left+cropW, top+cropH))
	lm = lm.Translate(landmark.Pt(-float64(left), -float64(top)))

	sx := float64(FrameWidth) / float64(cropped.Bounds().Dx())
	sy := float64(FrameHeight) / float64(cropped.Bounds().Dy())
	out := imaging.Resize(cropped, FrameWidth, FrameHeight, imaging.Lanczos)
	lm = lm.Map(func(p landmark.Point) landmark.Point {
		return landmark.Pt(p.X*sx, p.Y*sy)
	})

	return out, lm
}

// ratio returns num/den, or 0 when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
