package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// AnalysisResponse is the symmetry report for one photo
type AnalysisResponse struct {
	ID              string             `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FinalScore      float64            `json:"final_score" example:"87.42"`
	FinalScores     map[string]float64 `json:"final_scores"`
	SymmetryScore   float64            `json:"symmetry_score" example:"91.3"`
	SymmetryScores  map[string]float64 `json:"symmetry_scores"`
	MatchScores     map[string]float64 `json:"match_scores"`
	Aligned         bool               `json:"aligned" example:"true"`
	RotationDegrees float64            `json:"rotation_degrees" example:"-3.12"`
	PartsImages     map[string]string  `json:"parts_images"`
	ResultImage     string             `json:"result_image" example:"data:image/png;base64,iVBORw0KGgo..."`
	TotalDistance   map[string]int     `json:"total_distance"`
	ProcessingMs    int64              `json:"processing_ms" example:"412"`
	CreatedAt       string             `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

// LandmarkDebugResponse is the landmark overlay
type LandmarkDebugResponse struct {
	ImageBase64   string `json:"image_base64" example:"data:image/png;base64,iVBORw0KGgo..."`
	LandmarkCount int    `json:"landmark_count" example:"468"`
}

// UsageDay is one daily analysis counter
type UsageDay struct {
	APIKeyID  string `json:"api_key_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Day       string `json:"day" example:"2026-01-01T00:00:00Z"`
	Analyses  int64  `json:"analyses" example:"42"`
	UpdatedAt string `json:"updated_at" example:"2026-01-01T12:00:00Z"`
}

// UsageResponse lists daily counters of the calling key
type UsageResponse struct {
	From  string     `json:"from" example:"2026-01-01"`
	To    string     `json:"to" example:"2026-01-30"`
	Total int64      `json:"total" example:"420"`
	Days  []UsageDay `json:"days"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

var (
	errUnauthorized = response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing API key"}, "401", "Unauthorized")
	errRateLimit    = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests")
	errInternal     = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errUnavailable  = response.New(ErrorResponse{Code: "SERVICE_UNAVAILABLE", Message: "A required service is unavailable"}, "503", "Service Unavailable")
)

// NewSwagger describes the public API. Paths are relative to /v1.
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Faicial Symmetry API",
		Version:     "v1.0.0",
		Description: "Facial symmetry analysis: landmark symmetry, region similarity and an annotated report image",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	imageUpload := []mime.MIME{mime.MIME("multipart/form-data")}
	apiKey := []map[string][]string{{"ApiKeyAuth": {}}}

	endpoints := []*endpoint.EndPoint{
		// POST /v1/analyze
		endpoint.New(
			endpoint.POST,
			"/analyze",
			endpoint.WithTags("Analysis"),
			endpoint.WithSummary("Analyze facial symmetry"),
			endpoint.WithDescription("Upload one face photo as multipart field \"image\" (jpeg, png or webp). Returns per-part and overall symmetry scores, the cropped regions and the annotated report image as PNG data URIs."),
			endpoint.WithConsume(imageUpload),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalysisResponse{}, "200", "Analysis completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_INPUT", Message: "Input could not be analyzed"}, "400", "Bad Request"),
				errUnauthorized,
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "REGION_TOO_SMALL", Message: "Face is too small in the image to compare regions"}, "422", "Unprocessable Entity"),
				errRateLimit,
				errInternal,
				errUnavailable,
			}),
			endpoint.WithSecurity(apiKey),
		),

		// POST /v1/debug/landmarks
		endpoint.New(
			endpoint.POST,
			"/debug/landmarks",
			endpoint.WithTags("Analysis"),
			endpoint.WithSummary("Draw detected landmarks"),
			endpoint.WithDescription("Runs landmark detection only and returns the photo with every landmark drawn, highlighting the ear anchors."),
			endpoint.WithConsume(imageUpload),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LandmarkDebugResponse{}, "200", "Landmarks drawn"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "400", "Bad Request"),
				errUnauthorized,
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				errRateLimit,
				errUnavailable,
			}),
			endpoint.WithSecurity(apiKey),
		),

		// GET /v1/usage
		endpoint.New(
			endpoint.GET,
			"/usage",
			endpoint.WithTags("Usage"),
			endpoint.WithSummary("Daily analysis counts"),
			endpoint.WithDescription("Daily analysis counters of the calling API key. Only available when the service runs with a database."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("First day (YYYY-MM-DD, default: 29 days before to)")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("Last day (YYYY-MM-DD, default: today UTC)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UsageResponse{}, "200", "Usage retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				errRateLimit,
				errInternal,
			}),
			endpoint.WithSecurity(apiKey),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
