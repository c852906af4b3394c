// Package symmetry scores geometric mirror symmetry of a face mesh.
//
// The scoring law is linear: each pixel of mean mirror residual costs one
// point, and scores never drop below zero.
package symmetry

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/score"
)

// Result holds per-part and overall symmetry scores.
type Result struct {
	Overall float64
	Parts   map[string]float64
	// Residuals are the raw mirror residuals per part, in pair order.
	Residuals map[string][]float64
}

// Scorer measures mirror residuals over a pair table.
type Scorer struct {
	pairs []landmark.PairGroup
}

// NewScorer returns a Scorer over landmark.AnatomicalPairs.
func NewScorer() *Scorer {
	return &Scorer{pairs: landmark.AnatomicalPairs}
}

// Score validates the set and computes the symmetry scores. The midline is the
// mean x of the two face-edge anchors; every right point is reflected across
// it and compared to its left partner.
func (s *Scorer) Score(lm landmark.Set) (Result, error) {
	if err := lm.Validate(); err != nil {
		return Result{}, fmt.Errorf("symmetry: %w", err)
	}

	axisX := lm.MidlineX()
	res := Result{
		Parts:     make(map[string]float64, len(s.pairs)),
		Residuals: make(map[string][]float64, len(s.pairs)),
	}

	var all []float64
	for _, group := range s.pairs {
		residuals := make([]float64, 0, len(group.Pairs))
		for _, pair := range group.Pairs {
			mirrored := landmark.ReflectX(lm[pair.Right], axisX)
			residuals = append(residuals, landmark.Distance(lm[pair.Left], mirrored))
		}
		res.Residuals[group.Part] = residuals
		res.Parts[group.Part] = score.Penalty(stat.Mean(residuals, nil))
		all = append(all, residuals...)
	}
	res.Overall = score.Penalty(stat.Mean(all, nil))

	return res, nil
}

// Score is a convenience wrapper around NewScorer().Score.
func Score(lm landmark.Set) (Result, error) {
	return NewScorer().Score(lm)
}
