package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, imageBytes []byte, apiKeyID uuid.UUID) (*domain.Analysis, error) {
	args := m.Called(ctx, imageBytes, apiKeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) DebugLandmarks(ctx context.Context, imageBytes []byte) (*domain.LandmarkDebug, error) {
	args := m.Called(ctx, imageBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LandmarkDebug), args.Error(1)
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
}

func multipartRequest(t *testing.T, path, field, contentType string, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="face.png"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeErrorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.Error.Code
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	imageBytes := []byte("png-bytes")
	score := 91.5

	tests := []struct {
		name        string
		field       string
		contentType string
		data        []byte
		setupMock   func(*MockAnalysisService)
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "success",
			field:       "image",
			contentType: "image/png",
			data:        imageBytes,
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything, imageBytes, uuid.Nil).Return(&domain.Analysis{
					FinalScore:  score,
					MatchScores: map[string]*float64{"eyes": &score, "ears": nil},
				}, nil)
			},
			wantStatus: 200,
		},
		{
			name:       "missing image field",
			setupMock:  func(*MockAnalysisService) {},
			wantStatus: 422,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:        "empty upload",
			field:       "image",
			contentType: "image/png",
			data:        []byte{},
			setupMock:   func(*MockAnalysisService) {},
			wantStatus:  422,
			wantCode:    "INVALID_IMAGE",
		},
		{
			name:        "oversized upload",
			field:       "image",
			contentType: "image/png",
			data:        make([]byte, 65),
			setupMock:   func(*MockAnalysisService) {},
			wantStatus:  422,
			wantCode:    "INVALID_IMAGE",
		},
		{
			name:        "unsupported content type",
			field:       "image",
			contentType: "image/gif",
			data:        imageBytes,
			setupMock:   func(*MockAnalysisService) {},
			wantStatus:  422,
			wantCode:    "INVALID_IMAGE",
		},
		{
			name:        "no face",
			field:       "image",
			contentType: "image/jpeg",
			data:        imageBytes,
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything, imageBytes, uuid.Nil).Return(nil, domain.ErrNoFaceDetected)
			},
			wantStatus: 400,
			wantCode:   "NO_FACE_DETECTED",
		},
		{
			name:        "detector unavailable",
			field:       "image",
			contentType: "image/webp",
			data:        imageBytes,
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything, imageBytes, uuid.Nil).
					Return(nil, domain.ErrServiceUnavailable.WithError(errors.New("dial tcp")))
			},
			wantStatus: 503,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAnalysisService{}
			tt.setupMock(svc)

			app := newTestApp()
			app.Post("/v1/analyze", NewAnalysisHandler(svc, 64).Analyze)

			resp, err := app.Test(multipartRequest(t, "/v1/analyze", tt.field, tt.contentType, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeErrorCode(t, resp))
			} else {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, score, body["final_score"])
				scores := body["match_scores"].(map[string]any)
				assert.Nil(t, scores["ears"])
				assert.Equal(t, score, scores["eyes"])
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_Analyze_PassesAPIKey(t *testing.T) {
	keyID := uuid.New()
	imageBytes := []byte("jpeg-bytes")

	svc := &MockAnalysisService{}
	svc.On("Analyze", mock.Anything, imageBytes, keyID).Return(&domain.Analysis{}, nil)

	app := newTestApp()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalAPIKeyID, keyID)
		return c.Next()
	})
	app.Post("/v1/analyze", NewAnalysisHandler(svc, 0).Analyze)

	resp, err := app.Test(multipartRequest(t, "/v1/analyze", "image", "image/jpeg", imageBytes))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_DebugLandmarks(t *testing.T) {
	imageBytes := []byte("png-bytes")

	svc := &MockAnalysisService{}
	svc.On("DebugLandmarks", mock.Anything, imageBytes).Return(&domain.LandmarkDebug{
		ImageBase64:   "data:image/png;base64,AAAA",
		LandmarkCount: 468,
	}, nil)

	app := newTestApp()
	app.Post("/v1/debug/landmarks", NewAnalysisHandler(svc, 0).DebugLandmarks)

	resp, err := app.Test(multipartRequest(t, "/v1/debug/landmarks", "image", "image/png", imageBytes))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body domain.LandmarkDebug
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 468, body.LandmarkCount)
	assert.Equal(t, "data:image/png;base64,AAAA", body.ImageBase64)
}

func TestNewAnalysisHandler_DefaultLimit(t *testing.T) {
	h := NewAnalysisHandler(&MockAnalysisService{}, -1)
	assert.Equal(t, int64(DefaultMaxImageBytes), h.maxImageBytes)
}
