package service

import (
	"context"
	"image"

	"github.com/JungUiJin/faicial-ai-test/internal/align"
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/match"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
	"github.com/JungUiJin/faicial-ai-test/internal/score"
	"github.com/JungUiJin/faicial-ai-test/internal/visual"
)

// The methods below expose each pipeline stage on its own. Errors are mapped
// to domain.AppError the same way Analyze maps them.

// Detect returns the landmarks of the best face in img.
func (s *AnalysisService) Detect(ctx context.Context, img image.Image) (landmark.Set, error) {
	return s.detect(ctx, img)
}

// DetectAligned rotates img by angle degrees about its center and detects on
// the rotated copy. A nil set means no face was found.
func (s *AnalysisService) DetectAligned(ctx context.Context, img image.Image, angle float64) (landmark.Set, *image.NRGBA, error) {
	lm, rotated, _, err := align.DetectAligned(ctx, s.detector, img, angle)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return lm, rotated, nil
}

// ScoreSymmetry returns the overall and per-part mirror symmetry scores.
func (s *AnalysisService) ScoreSymmetry(lm landmark.Set) (float64, map[string]float64, error) {
	res, err := s.symmetry.Score(lm)
	if err != nil {
		return 0, nil, mapError(err)
	}
	return res.Overall, res.Parts, nil
}

// BuildRegions crops every configured face region.
func (s *AnalysisService) BuildRegions(img image.Image, lm landmark.Set) (region.Map, error) {
	if err := lm.Validate(); err != nil {
		return nil, mapError(err)
	}
	regions, err := s.segmenter.Segment(img, lm)
	if err != nil {
		return nil, mapError(err)
	}
	return regions, nil
}

// ScoreMatches compares mirrored regions. Parts whose regions are missing
// score nil.
func (s *AnalysisService) ScoreMatches(regions region.Map) (match.Scores, error) {
	scores, _, err := s.matcher.Match(regions)
	if err != nil {
		return nil, mapError(err)
	}
	return scores, nil
}

// Aggregate blends symmetry and match scores into final part scores and the
// weighted overall score.
func (s *AnalysisService) Aggregate(sym map[string]float64, matches match.Scores) (map[string]float64, float64) {
	return score.Aggregate(sym, matches)
}

// ComputeProjectionDistances measures how far each highlighted landmark lies
// from axis, in pixels.
func (s *AnalysisService) ComputeProjectionDistances(lm landmark.Set, axis visual.Axis) (visual.Distances, error) {
	d, err := visual.ProjectionDistances(lm, axis)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}
