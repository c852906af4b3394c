// Package score blends geometric and photometric part scores into the final
// weighted report.
package score

import (
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
)

// Weights are the fixed contribution of each part to the overall score.
var Weights = map[string]float64{
	landmark.PartEyes:  0.30,
	landmark.PartNose:  0.20,
	landmark.PartMouth: 0.20,
	landmark.PartChin:  0.20,
	landmark.PartEars:  0.10,
}

// Parts lists the weighted parts in report order.
var Parts = []string{
	landmark.PartEyes,
	landmark.PartNose,
	landmark.PartMouth,
	landmark.PartChin,
	landmark.PartEars,
}

const (
	symmetryBlend = 0.5
	matchBlend    = 0.5
)

// MatchOnly parts take the match score alone; they carry no landmark mirror
// geometry.
var MatchOnly = map[string]bool{
	landmark.PartChin: true,
}

// MissingMatchAsZero is the policy for a weighted part whose match score is
// absent: it blends as 0 instead of being dropped, so a missing region costs
// the part half its score.
func MissingMatchAsZero(match *float64) float64 {
	if match == nil {
		return 0
	}
	return *match
}

// Aggregate computes the final per-part scores and the weighted overall score.
func Aggregate(sym map[string]float64, match map[string]*float64) (map[string]float64, float64) {
	final := make(map[string]float64, len(Parts))
	var overall float64

	for _, part := range Parts {
		m := MissingMatchAsZero(match[part])
		var v float64
		if MatchOnly[part] {
			v = m
		} else {
			v = symmetryBlend*sym[part] + matchBlend*m
		}
		v = Round2(v)
		final[part] = v
		overall += Weights[part] * v
	}

	return final, Round2(overall)
}
