package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

// PgxPool is the subset of *pgxpool.Pool used by repositories, so that
// pgxmock pools can stand in for it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// APIKeyRepositoryInterface defines operations for API key data access
type APIKeyRepositoryInterface interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByHash(ctx context.Context, hash string) (*domain.APIKey, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.APIKey, error)
	List(ctx context.Context) ([]domain.APIKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
	Revoke(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UsageRepositoryInterface defines operations for the daily analysis counters
type UsageRepositoryInterface interface {
	Increment(ctx context.Context, apiKeyID uuid.UUID, day time.Time) error
	GetRange(ctx context.Context, apiKeyID uuid.UUID, from, to time.Time) ([]domain.Usage, error)
}
