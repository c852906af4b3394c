package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/JungUiJin/faicial-ai-test/internal/align"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
	"github.com/JungUiJin/faicial-ai-test/internal/landmark"
	"github.com/JungUiJin/faicial-ai-test/internal/match"
	"github.com/JungUiJin/faicial-ai-test/internal/provider"
	"github.com/JungUiJin/faicial-ai-test/internal/region"
	"github.com/JungUiJin/faicial-ai-test/internal/score"
	"github.com/JungUiJin/faicial-ai-test/internal/symmetry"
	"github.com/JungUiJin/faicial-ai-test/internal/visual"
)

// UsageRecorder counts successful analyses per API key.
type UsageRecorder interface {
	Increment(ctx context.Context, apiKeyID uuid.UUID, day time.Time) error
}

// DefaultGateMargin is the fraction of the gated face box added on every side.
const DefaultGateMargin = 0.35

// AnalysisService runs the symmetry pipeline for one uploaded image at a time.
// It holds no per-request state, so one instance serves concurrent requests
// as long as the detector does.
type AnalysisService struct {
	detector   provider.LandmarkDetector
	gate       provider.FaceGate
	gateMargin float64
	maxPixels  int
	usage      UsageRecorder
	renderer   *visual.Renderer
	logger     *slog.Logger

	aligner   *align.Aligner
	symmetry  *symmetry.Scorer
	segmenter *region.Segmenter
	matcher   *match.Matcher
}

func NewAnalysisService(detector provider.LandmarkDetector, renderer *visual.Renderer, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		detector:   detector,
		gateMargin: DefaultGateMargin,
		maxPixels:  DefaultMaxImagePixels,
		renderer:   renderer,
		logger:     logger,
		aligner:    align.NewAligner(detector),
		symmetry:   symmetry.NewScorer(),
		segmenter:  region.NewSegmenter(),
		matcher:    match.NewMatcher(),
	}
}

// WithGate crops every image to the most confident face the gate reports
// before landmark detection.
func (s *AnalysisService) WithGate(gate provider.FaceGate, margin float64) *AnalysisService {
	s.gate = gate
	s.gateMargin = margin
	return s
}

// WithMaxImagePixels rejects uploads whose declared width times height
// exceeds n.
func (s *AnalysisService) WithMaxImagePixels(n int) *AnalysisService {
	s.maxPixels = n
	return s
}

func (s *AnalysisService) WithUsage(usage UsageRecorder) *AnalysisService {
	s.usage = usage
	return s
}

// Analyze scores the face in imageBytes. apiKeyID may be uuid.Nil when
// requests are not authenticated; usage is then not recorded.
func (s *AnalysisService) Analyze(ctx context.Context, imageBytes []byte, apiKeyID uuid.UUID) (*domain.Analysis, error) {
	start := time.Now()

	img, err := decodeImage(imageBytes, s.maxPixels)
	if err != nil {
		return nil, err
	}

	img, err = s.gateFace(ctx, imageBytes, img)
	if err != nil {
		return nil, err
	}

	lm, err := s.detect(ctx, img)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("landmarks detected", "count", len(lm))

	work, workLm, angle, aligned, err := s.align(ctx, img, lm)
	if err != nil {
		return nil, err
	}

	sym, err := s.symmetry.Score(workLm)
	if err != nil {
		return nil, mapError(err)
	}
	s.logger.Debug("symmetry scored", "overall", sym.Overall, "parts", sym.Parts)

	regions, err := s.segmenter.Segment(work, workLm)
	if err != nil {
		return nil, mapError(err)
	}

	matches, parts, err := s.matcher.Match(regions)
	if err != nil {
		return nil, mapError(err)
	}
	s.logger.Debug("regions matched", "scores", formatScores(matches))

	final, overall := score.Aggregate(sym.Parts, matches)
	s.logger.Debug("scores aggregated", "final", final, "overall", overall)

	report, distances, err := s.report(work, workLm, final, overall)
	if err != nil {
		return nil, err
	}

	partsImages, err := encodeRegions(parts)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	resultImage, err := encodeDataURI(report)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	analysis := &domain.Analysis{
		ID:              uuid.New(),
		FinalScore:      overall,
		FinalScores:     final,
		SymmetryScore:   sym.Overall,
		SymmetryScores:  sym.Parts,
		MatchScores:     matches,
		Aligned:         aligned,
		RotationDegrees: score.Round2(angle),
		PartsImages:     partsImages,
		ResultImage:     resultImage,
		TotalDistance:   roundDistances(distances),
		ProcessingMs:    time.Since(start).Milliseconds(),
		CreatedAt:       time.Now().UTC(),
	}

	s.recordUsage(ctx, apiKeyID)

	s.logger.Info("analysis completed",
		"analysis_id", analysis.ID,
		"final_score", overall,
		"total_distance_px", distances.Total(),
		"aligned", aligned,
		"duration_ms", analysis.ProcessingMs,
	)
	return analysis, nil
}

// DebugLandmarks draws every detected landmark on the image.
func (s *AnalysisService) DebugLandmarks(ctx context.Context, imageBytes []byte) (*domain.LandmarkDebug, error) {
	img, err := decodeImage(imageBytes, s.maxPixels)
	if err != nil {
		return nil, err
	}

	lm, err := s.detect(ctx, img)
	if err != nil {
		return nil, err
	}
	s.logger.Info("debug landmarks detected", "count", len(lm))

	encoded, err := encodeDataURI(visual.DebugOverlay(img, lm))
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	return &domain.LandmarkDebug{
		ImageBase64:   encoded,
		LandmarkCount: len(lm),
	}, nil
}

// gateFace crops img to the most confident face reported by the gate, grown by
// gateMargin. Without a gate img is returned unchanged.
func (s *AnalysisService) gateFace(ctx context.Context, imageBytes []byte, img image.Image) (image.Image, error) {
	if s.gate == nil {
		return img, nil
	}

	faces, err := s.gate.DetectFaces(ctx, imageBytes)
	if err != nil {
		return nil, mapError(fmt.Errorf("face gate: %w", err))
	}

	best, ok := provider.Best(faces)
	if !ok {
		return nil, domain.ErrNoFaceDetected
	}

	b := img.Bounds()
	box := best.BoundingBox.Rect(b.Dx(), b.Dy(), s.gateMargin).Add(b.Min)
	if box.Empty() {
		return nil, domain.ErrNoFaceDetected
	}

	s.logger.Debug("face gated",
		"faces", len(faces),
		"confidence", best.Confidence,
		"box", box.String(),
	)
	return imaging.Crop(img, box), nil
}

// detect runs the detector and rejects "no face" and meshes shorter than
// landmark.MeshSize before any other stage sees them.
func (s *AnalysisService) detect(ctx context.Context, img image.Image) (landmark.Set, error) {
	lm, err := s.detector.DetectLandmarks(ctx, img)
	if err != nil {
		return nil, mapError(fmt.Errorf("detect landmarks: %w", err))
	}
	if lm == nil {
		return nil, domain.ErrNoFaceDetected
	}
	if err := lm.Validate(); err != nil {
		return nil, mapError(fmt.Errorf("detected landmarks: %w", err))
	}
	return lm, nil
}

// align levels the face. When the rotated image yields no face the
// unaligned image and landmarks are used and the fallback is logged.
func (s *AnalysisService) align(ctx context.Context, img image.Image, lm landmark.Set) (*image.NRGBA, landmark.Set, float64, bool, error) {
	res, err := s.aligner.Align(ctx, img, lm)
	switch {
	case errors.Is(err, align.ErrNoAlignment):
		s.logger.Warn("alignment failed, scoring unaligned face",
			"reason", err.Error(),
			"angle", align.Angle(lm),
		)
		return imaging.Clone(img), lm, 0, false, nil
	case err != nil:
		return nil, nil, 0, false, mapError(err)
	}

	if err := res.Landmarks.Validate(); err != nil {
		return nil, nil, 0, false, mapError(fmt.Errorf("aligned landmarks: %w", err))
	}

	s.logger.Debug("face aligned",
		"angle", res.Angle,
		"drift_px", res.Transform.Drift(lm, res.Landmarks),
	)
	return res.Image, res.Landmarks, res.Angle, true, nil
}

// report frames the face, measures the highlight distances in frame
// coordinates and renders the annotated image.
func (s *AnalysisService) report(img image.Image, lm landmark.Set, final map[string]float64, overall float64) (*image.NRGBA, visual.Distances, error) {
	framed, framedLm := visual.Frame(img, lm)

	axis, err := visual.AxisFromLandmarks(framedLm)
	if err != nil {
		return nil, nil, mapError(err)
	}

	distances, err := visual.ProjectionDistances(framedLm, axis)
	if err != nil {
		return nil, nil, mapError(err)
	}

	rendered, err := s.renderer.Render(framed, framedLm, axis, distances, final, overall)
	if err != nil {
		return nil, nil, domain.ErrInternal.WithError(fmt.Errorf("render report: %w", err))
	}
	return rendered, distances, nil
}

func (s *AnalysisService) recordUsage(ctx context.Context, apiKeyID uuid.UUID) {
	if s.usage == nil || apiKeyID == uuid.Nil {
		return
	}
	if err := s.usage.Increment(ctx, apiKeyID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record usage", "api_key_id", apiKeyID, "error", err)
	}
}

func roundDistances(d visual.Distances) map[string]int {
	out := make(map[string]int, len(d))
	for name, v := range d {
		out[name] = int(math.Round(v))
	}
	return out
}

func formatScores(scores match.Scores) map[string]any {
	out := make(map[string]any, len(scores))
	for part := range scores {
		if v, ok := scores.Value(part); ok {
			out[part] = v
			continue
		}
		out[part] = nil
	}
	return out
}
