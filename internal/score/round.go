package score

import (
	"math"
	"strconv"
)

// Round2 rounds v to two decimal places using the exact binary value of v,
// so 30.005 (stored as 30.00499...) rounds down.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// Penalty converts a mean pixel residual into a score: one point per pixel,
// floored at zero.
func Penalty(meanResidual float64) float64 {
	return Round2(math.Max(0, 100-meanResidual))
}
