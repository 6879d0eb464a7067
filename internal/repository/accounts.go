package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Account is one connected insurance account (a Canopy connection).
type Account struct {
	ID         uuid.UUID
	ExternalID string
	FirstName  *string
	LastName   *string
	Email      *string
	State      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AccountRepository interface {
	// UpsertFromMetadata creates or refreshes the account row keyed by the
	// pull's external account id, folding in whatever identity metadata the
	// payload carried.
	UpsertFromMetadata(ctx context.Context, externalID string, metadata map[string]any) (*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
}

type accountRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAccountRepository(pool *pgxpool.Pool, logger *slog.Logger) AccountRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountRepository{pool: pool, logger: logger}
}

func (r *accountRepository) UpsertFromMetadata(ctx context.Context, externalID string, metadata map[string]any) (*Account, error) {
	const q = `
INSERT INTO accounts (id, external_id, first_name, last_name, email, state, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (external_id) DO UPDATE SET
	first_name = COALESCE(EXCLUDED.first_name, accounts.first_name),
	last_name  = COALESCE(EXCLUDED.last_name, accounts.last_name),
	email      = COALESCE(EXCLUDED.email, accounts.email),
	state      = COALESCE(EXCLUDED.state, accounts.state),
	updated_at = now()
RETURNING id, external_id, first_name, last_name, email, state, created_at, updated_at`

	row := r.pool.QueryRow(ctx, q,
		uuid.New(), externalID,
		metaString(metadata, "first_name"),
		metaString(metadata, "last_name"),
		metaString(metadata, "email"),
		metaString(metadata, "state"),
	)
	var a Account
	if err := row.Scan(&a.ID, &a.ExternalID, &a.FirstName, &a.LastName, &a.Email, &a.State, &a.CreatedAt, &a.UpdatedAt); err != nil {
		r.logger.Error("failed to upsert account", "external_id", externalID, "error", err)
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	const q = `
SELECT id, external_id, first_name, last_name, email, state, created_at, updated_at
FROM accounts WHERE id = $1`

	var a Account
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&a.ID, &a.ExternalID, &a.FirstName, &a.LastName, &a.Email, &a.State, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to get account", "account_id", id, "error", err)
		return nil, err
	}
	return &a, nil
}

func metaString(metadata map[string]any, key string) *string {
	if metadata == nil {
		return nil
	}
	if s, ok := metadata[key].(string); ok && s != "" {
		return &s
	}
	return nil
}
