package face

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JungUiJin/faicial-ai-test/internal/config"
	"github.com/JungUiJin/faicial-ai-test/internal/provider"
	"github.com/JungUiJin/faicial-ai-test/internal/provider/facemesh"
	"github.com/JungUiJin/faicial-ai-test/internal/provider/mock"
	"github.com/JungUiJin/faicial-ai-test/internal/provider/rekognition"
)

// DetectorType selects the landmark detector implementation
type DetectorType string

const (
	// DetectorTypeMock is the synthetic mesh detector (dev/test)
	DetectorTypeMock DetectorType = "mock"
	// DetectorTypeFacemesh is the HTTP facemesh sidecar
	DetectorTypeFacemesh DetectorType = "facemesh"
)

// GateType selects the optional face gate
type GateType string

const (
	GateTypeNone        GateType = "none"
	GateTypeMock        GateType = "mock"
	GateTypeRekognition GateType = "rekognition"
)

// HealthChecker is implemented by detectors backed by a remote service.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Providers bundles what the analysis service needs from the outside world.
type Providers struct {
	Detector provider.LandmarkDetector
	// Gate is nil when FACE_GATE=none.
	Gate provider.FaceGate
	// Health is nil when the detector runs in process.
	Health HealthChecker
}

// NewProviders builds the detector and the gate described by cfg.
//
// Environment variables:
//   - DETECTOR: "mock" or "facemesh" (default: "mock")
//   - FACEMESH_URL, FACEMESH_TIMEOUT: sidecar address and HTTP timeout
//   - DETECTOR_SERIALIZE: run one detection at a time
//   - FACE_GATE: "none", "mock" or "rekognition" (default: "none")
//   - AWS_REGION: AWS region for Rekognition, credentials via the SDK chain
func NewProviders(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Providers, error) {
	p := &Providers{}

	switch DetectorType(cfg.Detector) {
	case DetectorTypeFacemesh:
		det := createFacemeshDetector(cfg, logger)
		p.Detector = det
		p.Health = det.Client()
	case DetectorTypeMock, "":
		p.Detector = mock.New()
	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s)",
			cfg.Detector, DetectorTypeMock, DetectorTypeFacemesh)
	}

	if cfg.DetectorSerialize {
		p.Detector = provider.Serialized(p.Detector)
	}

	gate, err := NewGate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.Gate = gate

	logger.Info("providers configured",
		"detector", cfg.Detector,
		"serialized", cfg.DetectorSerialize,
		"face_gate", cfg.FaceGate,
	)
	return p, nil
}

// NewGate returns the configured face gate, or nil when gating is disabled.
func NewGate(ctx context.Context, cfg *config.Config) (provider.FaceGate, error) {
	switch GateType(cfg.FaceGate) {
	case GateTypeNone, "":
		return nil, nil
	case GateTypeMock:
		return mock.NewGate(), nil
	case GateTypeRekognition:
		return createRekognitionGate(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown face gate: %s (supported: %s, %s, %s)",
			cfg.FaceGate, GateTypeNone, GateTypeMock, GateTypeRekognition)
	}
}

func createRekognitionGate(ctx context.Context, cfg *config.Config) (provider.FaceGate, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	gate, err := rekognition.NewGate(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition gate in %s: %w", rekogConfig.Region, err)
	}
	return gate, nil
}

func createFacemeshDetector(cfg *config.Config, logger *slog.Logger) *facemesh.Detector {
	fmConfig := facemesh.DefaultConfig()
	if cfg.FacemeshURL != "" {
		fmConfig.BaseURL = cfg.FacemeshURL
	}
	if cfg.FacemeshTimeout > 0 {
		fmConfig.Timeout = cfg.FacemeshTimeout
	}
	return facemesh.NewDetector(fmConfig, logger)
}
