package domain

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the symmetry report returned to API clients. Images are PNG
// data URIs.
type Analysis struct {
	ID              uuid.UUID           `json:"id"`
	FinalScore      float64             `json:"final_score"`
	FinalScores     map[string]float64  `json:"final_scores"`
	SymmetryScore   float64             `json:"symmetry_score"`
	SymmetryScores  map[string]float64  `json:"symmetry_scores"`
	MatchScores     map[string]*float64 `json:"match_scores"`
	Aligned         bool                `json:"aligned"`
	RotationDegrees float64             `json:"rotation_degrees"`
	PartsImages     map[string]string   `json:"parts_images"`
	ResultImage     string              `json:"result_image"`
	TotalDistance   map[string]int      `json:"total_distance"`
	ProcessingMs    int64               `json:"processing_ms"`
	CreatedAt       time.Time           `json:"created_at"`
}

// LandmarkDebug is the landmark overlay returned by the debug endpoint
type LandmarkDebug struct {
	ImageBase64   string `json:"image_base64"`
	LandmarkCount int    `json:"landmark_count"`
}

// Usage is the per-key daily analysis counter
type Usage struct {
	APIKeyID  uuid.UUID `json:"api_key_id"`
	Day       time.Time `json:"day"`
	Analyses  int64     `json:"analyses"`
	UpdatedAt time.Time `json:"updated_at"`
}
