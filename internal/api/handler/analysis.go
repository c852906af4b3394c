package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

// DefaultMaxImageBytes caps uploads when the handler is built without a limit
const DefaultMaxImageBytes = 10 * 1024 * 1024

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AnalysisService is the pipeline behind the analysis endpoints
type AnalysisService interface {
	Analyze(ctx context.Context, imageBytes []byte, apiKeyID uuid.UUID) (*domain.Analysis, error)
	DebugLandmarks(ctx context.Context, imageBytes []byte) (*domain.LandmarkDebug, error)
}

// AnalysisHandler handles the symmetry analysis endpoints
type AnalysisHandler struct {
	service       AnalysisService
	maxImageBytes int64
}

// NewAnalysisHandler creates a new AnalysisHandler instance
func NewAnalysisHandler(service AnalysisService, maxImageBytes int64) *AnalysisHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &AnalysisHandler{service: service, maxImageBytes: maxImageBytes}
}

// Analyze POST /v1/analyze - full symmetry report for one face photo
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return err
	}

	analysis, err := h.service.Analyze(c.UserContext(), imageBytes, middleware.GetAPIKeyID(c))
	if err != nil {
		return err
	}

	return c.JSON(analysis)
}

// DebugLandmarks POST /v1/debug/landmarks - landmark overlay for troubleshooting
func (h *AnalysisHandler) DebugLandmarks(c *fiber.Ctx) error {
	imageBytes, err := h.extractAndValidateImage(c)
	if err != nil {
		return err
	}

	debug, err := h.service.DebugLandmarks(c.UserContext(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(debug)
}

// extractAndValidateImage reads the multipart "image" field and checks its
// size and declared content type
func (h *AnalysisHandler) extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image file is required"))
	}

	if file.Size == 0 || file.Size > h.maxImageBytes {
		return nil, domain.ErrInvalidImage
	}

	if !validImageTypes[file.Header.Get("Content-Type")] {
		return nil, domain.ErrInvalidImage
	}

	return readFormFile(file)
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	return data, nil
}
