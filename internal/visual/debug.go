package visual

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

var (
	colorLime = color.NRGBA{G: 255, A: 255}

	// EdgeAnchors are emphasized on the debug overlay since they define the
	// symmetry midline.
	EdgeAnchors = []int{landmark.LeftFaceEdge, landmark.RightFaceEdge}
)

// DebugOverlay draws every landmark as a small lime dot and the face-edge
// anchors as larger red dots.
func DebugOverlay(img image.Image, lm landmark.Set) *image.NRGBA {
	dc := gg.NewContextForImage(img)

	dc.SetColor(colorLime)
	for _, p := range lm {
		dc.DrawCircle(p.X, p.Y, 2)
		dc.Fill()
	}

	dc.SetColor(colorRed)
	for _, idx := range EdgeAnchors {
		if !lm.Has(idx) {
			continue
		}
		dc.DrawCircle(lm[idx].X, lm[idx].Y, 6)
		dc.Fill()
	}

	return imaging.Clone(dc.Image())
}
