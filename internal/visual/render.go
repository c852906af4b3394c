package visual

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

var (
	colorAxis   = color.NRGBA{R: 255, G: 255, A: 255}
	colorHeader = color.NRGBA{A: 180}
	colorShadow = color.NRGBA{A: 100}
	colorBlue   = color.NRGBA{B: 255, A: 255}
	colorCyan   = color.NRGBA{G: 255, B: 255, A: 255}
	colorRed    = color.NRGBA{R: 255, A: 255}
)

var highlightColors = map[string]color.Color{
	"left_mouth": colorBlue, "right_mouth": colorBlue,
	"left_eye": colorBlue, "right_eye": colorBlue,
	"left_ear": colorCyan, "right_ear": colorCyan,
	"left_nose": colorRed, "right_nose": colorRed,
	"left_chin": colorRed, "right_chin": colorRed,
}

type scoreLabel struct {
	part  string
	index int
	left  bool
}

var scoreLabels = []scoreLabel{
	{part: landmark.PartEyes, index: landmark.LeftEyeOuter, left: true},
	{part: landmark.PartNose, index: landmark.NoseTip},
	{part: landmark.PartMouth, index: landmark.UpperLip, left: true},
	{part: landmark.PartEars, index: landmark.LeftFaceEdge},
	{part: landmark.PartChin, index: 397},
}

const (
	labelW       = 150
	labelH       = 50
	labelPadding = 20
	dashLength   = 10
)

// Message returns the header message for an overall score.
func Message(overall float64) string {
	switch {
	case overall >= 90:
		return "~(^ w ^~) A true master of symmetry! (~ ^ w ^)~"
	case overall >= 75:
		return "A hidden expert of symmetric beauty!"
	case overall >= 60:
		return "Slightly off balance, and that is your charm! ^^b"
	default:
		return "Asymmetric? We call that personality :)"
	}
}

// Renderer draws the annotated report. It is safe for concurrent use; font
// faces are created per call.
type Renderer struct {
	font *truetype.Font
}

// NewRenderer loads the TrueType font at fontPath, or the embedded Go Regular
// font when fontPath is empty.
func NewRenderer(fontPath string) (*Renderer, error) {
	data := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read report font: %w", err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse report font: %w", err)
	}
	return &Renderer{font: f}, nil
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// Render annotates img with the symmetry axis, the perpendicular from every
// highlighted landmark, the overall score header and the per-part labels.
func (r *Renderer) Render(img image.Image, lm landmark.Set, axis Axis, distances Distances, final map[string]float64, overall float64) (*image.NRGBA, error) {
	if axis.Dir.Len() == 0 {
		return nil, ErrDegenerateAxis
	}

	dc := gg.NewContextForImage(img)
	w, h := float64(dc.Width()), float64(dc.Height())
	sf := w / FrameWidth

	titleSize := math.Floor(40 * sf)
	messageSize := math.Floor(34 * sf)
	labelSize := math.Floor(24 * sf)
	distSize := math.Floor(math.Floor(15*sf) * 1.5)

	// axis
	p1, p2 := axis.Endpoints(math.Hypot(w, h) * 1.5)
	dc.SetColor(colorAxis)
	dc.SetLineWidth(2)
	dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	dc.Stroke()

	// header
	pad := math.Floor(20 * sf)
	boxH := math.Floor(titleSize*3 + pad*2)
	dc.SetColor(colorHeader)
	dc.DrawRectangle(20, pad, w-40, boxH)
	dc.Fill()

	dc.SetFontFace(r.face(titleSize))
	drawText(dc, fmt.Sprintf("Your symmetry score is %.2f%%!!", overall), w/2, pad+pad+titleSize*0.5, color.White)
	dc.SetFontFace(r.face(messageSize))
	drawText(dc, Message(overall), w/2, pad+pad+titleSize*2.5, color.White)

	// perpendiculars
	dc.SetFontFace(r.face(distSize))
	for _, hl := range landmark.Highlights {
		dist, ok := distances[hl.Name]
		if !ok || !lm.Has(hl.Index) {
			continue
		}
		p := lm[hl.Index]
		foot, _ := axis.Project(p)
		c := highlightColors[hl.Name]

		dc.SetColor(c)
		dc.SetLineWidth(2)
		dc.SetDash(dashLength, dashLength)
		dc.DrawLine(p.X, p.Y, foot.X, foot.Y)
		dc.Stroke()
		dc.SetDash()

		mid := landmark.Centroid(p, foot)
		drawText(dc, fmt.Sprintf("%dpx", int(dist)), mid.X, mid.Y-math.Floor(15*sf)/2, c)
	}

	// part labels
	dc.SetFontFace(r.face(labelSize))
	for _, l := range scoreLabels {
		if !lm.Has(l.index) {
			continue
		}
		bx := w - labelW - labelPadding
		if l.left {
			bx = labelPadding
		}
		by := math.Floor(lm[l.index].Y - labelH/2)
		by = math.Max(labelPadding, math.Min(by, h-labelH-labelPadding))

		dc.SetColor(colorShadow)
		dc.DrawRoundedRectangle(bx+2, by+2, labelW, labelH, 8)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawRoundedRectangle(bx, by, labelW, labelH, 8)
		dc.Fill()

		dc.SetColor(color.Black)
		txt := fmt.Sprintf("%s: %.1f%%", l.part, final[l.part])
		dc.DrawStringAnchored(txt, bx+labelW/2, by+labelH/2, 0.5, 0.35)
	}

	return imaging.Clone(dc.Image()), nil
}

// drawText draws s centered on (x, y) with a one-pixel black shadow, shifted
// back inside the canvas when it would overflow an edge.
func drawText(dc *gg.Context, s string, x, y float64, c color.Color) {
	tw, th := dc.MeasureString(s)
	w, h := float64(dc.Width()), float64(dc.Height())

	left, right := x-tw/2, x+tw/2
	top, bottom := y-th/2, y+th/2
	switch {
	case top < 0:
		y += -top + 5
	case bottom > h:
		y += h - bottom - 5
	}
	switch {
	case left < 0:
		x += -left + 5
	case right > w:
		x += w - right - 5
	}

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(s, x+1, y+1, 0.5, 0.35)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.35)
}
