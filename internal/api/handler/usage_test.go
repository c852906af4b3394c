package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

type MockUsageReader struct {
	mock.Mock
}

func (m *MockUsageReader) GetRange(ctx context.Context, apiKeyID uuid.UUID, from, to time.Time) ([]domain.Usage, error) {
	args := m.Called(ctx, apiKeyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Usage), args.Error(1)
}

func day(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func TestUsageHandler_GetUsage(t *testing.T) {
	keyID := uuid.New()
	fixedNow := time.Date(2026, 3, 31, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMock  func(*MockUsageReader)
		wantStatus int
		wantTotal  int64
		wantFrom   string
	}{
		{
			name:  "default range",
			query: "",
			setupMock: func(m *MockUsageReader) {
				m.On("GetRange", mock.Anything, keyID, day("2026-03-02"), day("2026-03-31")).Return([]domain.Usage{
					{APIKeyID: keyID, Day: day("2026-03-10"), Analyses: 3},
					{APIKeyID: keyID, Day: day("2026-03-11"), Analyses: 4},
				}, nil)
			},
			wantStatus: 200,
			wantTotal:  7,
			wantFrom:   "2026-03-02",
		},
		{
			name:  "explicit range without rows",
			query: "?from=2026-01-01&to=2026-01-31",
			setupMock: func(m *MockUsageReader) {
				m.On("GetRange", mock.Anything, keyID, day("2026-01-01"), day("2026-01-31")).Return(nil, nil)
			},
			wantStatus: 200,
			wantFrom:   "2026-01-01",
		},
		{
			name:       "bad date",
			query:      "?from=yesterday",
			setupMock:  func(*MockUsageReader) {},
			wantStatus: 422,
		},
		{
			name:       "inverted range",
			query:      "?from=2026-02-01&to=2026-01-01",
			setupMock:  func(*MockUsageReader) {},
			wantStatus: 422,
		},
		{
			name:       "range too long",
			query:      "?from=2020-01-01&to=2026-01-01",
			setupMock:  func(*MockUsageReader) {},
			wantStatus: 422,
		},
		{
			name:  "repository error",
			query: "?from=2026-01-01&to=2026-01-02",
			setupMock: func(m *MockUsageReader) {
				m.On("GetRange", mock.Anything, keyID, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUsageReader{}
			tt.setupMock(repo)

			h := NewUsageHandler(repo)
			h.now = func() time.Time { return fixedNow }

			app := newTestApp()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals(middleware.LocalAPIKey, &domain.APIKey{ID: keyID, IsActive: true})
				return c.Next()
			})
			app.Get("/v1/usage", h.GetUsage)

			resp, err := app.Test(httptest.NewRequest("GET", "/v1/usage"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == 200 {
				var body UsageResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantTotal, body.Total)
				assert.Equal(t, tt.wantFrom, body.From)
				assert.NotNil(t, body.Days)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUsageHandler_RequiresAPIKey(t *testing.T) {
	app := newTestApp()
	app.Get("/v1/usage", NewUsageHandler(&MockUsageReader{}).GetUsage)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/usage", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
