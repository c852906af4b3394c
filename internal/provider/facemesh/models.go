package facemesh

// LandmarksRequest for POST /landmarks
type LandmarksRequest struct {
	Img string `json:"img"` // base64 encoded PNG
}

// LandmarksResponse from POST /landmarks
type LandmarksResponse struct {
	Faces []Face `json:"faces"`
}

// Face is one detected mesh. Landmarks are [x, y] pairs normalized to the
// image size.
type Face struct {
	Score     float64     `json:"score"`
	Landmarks [][]float64 `json:"landmarks"`
}

// HealthResponse from GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
