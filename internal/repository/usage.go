package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

var _ UsageRepositoryInterface = (*UsageRepository)(nil)

// UsageRepository keeps one analysis counter per API key per UTC day. It
// stores counts only, never scores.
type UsageRepository struct {
	pool PgxPool
}

func NewUsageRepository(pool PgxPool) *UsageRepository {
	return &UsageRepository{pool: pool}
}

// Increment adds one analysis to the counter of day.
func (r *UsageRepository) Increment(ctx context.Context, apiKeyID uuid.UUID, day time.Time) error {
	query := `
		INSERT INTO api_key_usage (api_key_id, day, analyses, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (api_key_id, day)
		DO UPDATE SET analyses = api_key_usage.analyses + 1, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, apiKeyID, truncateDay(day)); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// GetRange returns the counters of apiKeyID for days in [from, to], oldest first.
func (r *UsageRepository) GetRange(ctx context.Context, apiKeyID uuid.UUID, from, to time.Time) ([]domain.Usage, error) {
	query := `
		SELECT api_key_id, day, analyses, updated_at
		FROM api_key_usage
		WHERE api_key_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, apiKeyID, truncateDay(from), truncateDay(to))
	if err != nil {
		return nil, fmt.Errorf("get usage range: %w", err)
	}
	defer rows.Close()

	var out []domain.Usage
	for rows.Next() {
		var u domain.Usage
		if err := rows.Scan(&u.APIKeyID, &u.Day, &u.Analyses, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return out, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
