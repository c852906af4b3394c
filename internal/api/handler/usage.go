package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/JungUiJin/faicial-ai-test/internal/api/middleware"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

const (
	dateLayout       = "2006-01-02"
	defaultUsageDays = 30
	maxUsageDays     = 366
)

// UsageReader reads the daily analysis counters of an API key
type UsageReader interface {
	GetRange(ctx context.Context, apiKeyID uuid.UUID, from, to time.Time) ([]domain.Usage, error)
}

type UsageHandler struct {
	repo UsageReader
	now  func() time.Time
}

func NewUsageHandler(repo UsageReader) *UsageHandler {
	return &UsageHandler{repo: repo, now: time.Now}
}

// UsageResponse lists daily counters for the authenticated key
type UsageResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Total int64          `json:"total"`
	Days  []domain.Usage `json:"days"`
}

// GetUsage GET /v1/usage?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *UsageHandler) GetUsage(c *fiber.Ctx) error {
	key, err := middleware.GetAPIKey(c)
	if err != nil {
		return err
	}

	from, to, err := h.parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}

	days, err := h.repo.GetRange(c.UserContext(), key.ID, from, to)
	if err != nil {
		return err
	}
	if days == nil {
		days = []domain.Usage{}
	}

	var total int64
	for _, d := range days {
		total += d.Analyses
	}

	return c.JSON(UsageResponse{
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Total: total,
		Days:  days,
	})
}

// parseRange defaults to the last 30 days ending today (UTC)
func (h *UsageHandler) parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	today := h.now().UTC().Truncate(24 * time.Hour)

	to := today
	if toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrValidationFailed.WithError(err)
		}
		to = t
	}

	from := to.AddDate(0, 0, -(defaultUsageDays - 1))
	if fromStr != "" {
		f, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrValidationFailed.WithError(err)
		}
		from = f
	}

	if from.After(to) || to.Sub(from) > maxUsageDays*24*time.Hour {
		return time.Time{}, time.Time{}, domain.ErrValidationFailed
	}
	return from, to, nil
}
