package match

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/gonum/stat"
)

// SSIM parameters matching the common single-scale reference for 8-bit
// grayscale input: 7x7 uniform window, K1=0.01, K2=0.03, sample covariance.
const (
	WindowSize = 7
	k1         = 0.01
	k2         = 0.03
	dataRange  = 255.0
)

// ErrWindowTooLarge is returned when an image is smaller than the SSIM window.
var ErrWindowTooLarge = errors.New("image smaller than ssim window")

// Plane is a row-major grayscale intensity array.
type Plane struct {
	W, H int
	Pix  []float64
}

func (p Plane) at(x, y int) float64 {
	return p.Pix[y*p.W+x]
}

// Luma converts img to 8-bit intensity using the ITU-R 601 weights in 16-bit
// fixed point, the same rounding as common imaging libraries use for "L" mode.
// Alpha is ignored.
func Luma(img image.Image) Plane {
	b := img.Bounds()
	p := Plane{W: b.Dx(), H: b.Dy(), Pix: make([]float64, b.Dx()*b.Dy())}
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			p.Pix[y*p.W+x] = float64(luma8(c.R, c.G, c.B))
		}
	}
	return p
}

func luma8(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// SSIM returns the mean structural similarity of two equally sized planes.
// The mean is taken over positions where the window lies fully inside the
// image, so border handling never affects the result.
func SSIM(x, y Plane) (float64, error) {
	if x.W != y.W || x.H != y.H {
		return 0, fmt.Errorf("ssim: size mismatch %dx%d vs %dx%d", x.W, x.H, y.W, y.H)
	}
	if x.W < WindowSize || x.H < WindowSize {
		return 0, fmt.Errorf("%w: %dx%d", ErrWindowTooLarge, x.W, x.H)
	}

	sx := newIntegral(x.W, x.H, func(i, j int) float64 { return x.at(i, j) })
	sy := newIntegral(x.W, x.H, func(i, j int) float64 { return y.at(i, j) })
	sxx := newIntegral(x.W, x.H, func(i, j int) float64 { v := x.at(i, j); return v * v })
	syy := newIntegral(x.W, x.H, func(i, j int) float64 { v := y.at(i, j); return v * v })
	sxy := newIntegral(x.W, x.H, func(i, j int) float64 { return x.at(i, j) * y.at(i, j) })

	const (
		np      = float64(WindowSize * WindowSize)
		covNorm = np / (np - 1)
	)
	c1 := (k1 * dataRange) * (k1 * dataRange)
	c2 := (k2 * dataRange) * (k2 * dataRange)

	ssimMap := make([]float64, 0, (x.W-WindowSize+1)*(x.H-WindowSize+1))
	for j := 0; j+WindowSize <= x.H; j++ {
		for i := 0; i+WindowSize <= x.W; i++ {
			ux := sx.window(i, j, WindowSize) / np
			uy := sy.window(i, j, WindowSize) / np
			uxx := sxx.window(i, j, WindowSize) / np
			uyy := syy.window(i, j, WindowSize) / np
			uxy := sxy.window(i, j, WindowSize) / np

			vx := covNorm * (uxx - ux*ux)
			vy := covNorm * (uyy - uy*uy)
			vxy := covNorm * (uxy - ux*uy)

			a1 := 2*ux*uy + c1
			a2 := 2*vxy + c2
			b1 := ux*ux + uy*uy + c1
			b2 := vx + vy + c2

			ssimMap = append(ssimMap, (a1*a2)/(b1*b2))
		}
	}
	return stat.Mean(ssimMap, nil), nil
}

// integral is a summed-area table with a zero row and column prepended.
type integral struct {
	w   int
	sum []float64
}

func newIntegral(w, h int, f func(x, y int) float64) integral {
	it := integral{w: w + 1, sum: make([]float64, (w+1)*(h+1))}
	for y := 1; y <= h; y++ {
		var row float64
		for x := 1; x <= w; x++ {
			row += f(x-1, y-1)
			it.sum[y*it.w+x] = it.sum[(y-1)*it.w+x] + row
		}
	}
	return it
}

func (it integral) window(x, y, size int) float64 {
	x1, y1 := x+size, y+size
	return it.sum[y1*it.w+x1] - it.sum[y*it.w+x1] - it.sum[y1*it.w+x] + it.sum[y*it.w+x]
}
