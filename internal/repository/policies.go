package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
)

// PolicyRecord is a normalized policy as persisted, with its coverages and
// vehicles stored as JSON documents.
type PolicyRecord struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	PolicyType       constants.PolicyType
	Carrier          string
	PolicyNumber     string
	Status           string
	PremiumCents     *int64
	AmountDueCents   *int64
	AmountPaidCents  *int64
	PaidInFull       *bool
	VehicleCount     int
	EffectiveDate    string
	ExpirationDate   string
	CoverageString   string
	DeductibleString string
	Coverages        []canopy.ParsedCoverage
	Vehicles         []canopy.ParsedVehicle
	CreatedAt        time.Time
}

type PolicyRepository interface {
	// ReplaceForAccount swaps the account's stored policies for the given
	// normalized set atomically.
	ReplaceForAccount(ctx context.Context, accountID uuid.UUID, records []PolicyRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]PolicyRecord, error)
}

type policyRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPolicyRepository(pool *pgxpool.Pool, logger *slog.Logger) PolicyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &policyRepository{pool: pool, logger: logger}
}

func (r *policyRepository) ReplaceForAccount(ctx context.Context, accountID uuid.UUID, records []PolicyRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM policies WHERE account_id = $1`, accountID); err != nil {
		r.logger.Error("failed to clear policies", "account_id", accountID, "error", err)
		return fmt.Errorf("clear policies: %w", err)
	}

	const q = `
INSERT INTO policies (
	id, account_id, policy_type, carrier, policy_number, status,
	premium_cents, amount_due_cents, amount_paid_cents, paid_in_full,
	vehicle_count, effective_date, expiration_date,
	coverage_string, deductible_string, coverages, vehicles, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, now())`

	for _, rec := range records {
		coveragesJSON, err := json.Marshal(rec.Coverages)
		if err != nil {
			return fmt.Errorf("marshal coverages: %w", err)
		}
		vehiclesJSON, err := json.Marshal(rec.Vehicles)
		if err != nil {
			return fmt.Errorf("marshal vehicles: %w", err)
		}
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err = tx.Exec(ctx, q,
			id, accountID, string(rec.PolicyType), rec.Carrier, rec.PolicyNumber, rec.Status,
			rec.PremiumCents, rec.AmountDueCents, rec.AmountPaidCents, rec.PaidInFull,
			rec.VehicleCount, rec.EffectiveDate, rec.ExpirationDate,
			rec.CoverageString, rec.DeductibleString, coveragesJSON, vehiclesJSON,
		)
		if err != nil {
			r.logger.Error("failed to insert policy", "account_id", accountID, "policy_type", rec.PolicyType, "error", err)
			return fmt.Errorf("insert policy: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *policyRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]PolicyRecord, error) {
	const q = `
SELECT id, account_id, policy_type, carrier, policy_number, status,
	premium_cents, amount_due_cents, amount_paid_cents, paid_in_full,
	vehicle_count, effective_date, expiration_date,
	coverage_string, deductible_string, coverages, vehicles, created_at
FROM policies WHERE account_id = $1 ORDER BY created_at, policy_type`

	rows, err := r.pool.Query(ctx, q, accountID)
	if err != nil {
		r.logger.Error("failed to list policies", "account_id", accountID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []PolicyRecord
	for rows.Next() {
		var rec PolicyRecord
		var policyType string
		var coveragesJSON, vehiclesJSON []byte
		err := rows.Scan(
			&rec.ID, &rec.AccountID, &policyType, &rec.Carrier, &rec.PolicyNumber, &rec.Status,
			&rec.PremiumCents, &rec.AmountDueCents, &rec.AmountPaidCents, &rec.PaidInFull,
			&rec.VehicleCount, &rec.EffectiveDate, &rec.ExpirationDate,
			&rec.CoverageString, &rec.DeductibleString, &coveragesJSON, &vehiclesJSON, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.PolicyType = constants.PolicyType(policyType)
		if len(coveragesJSON) > 0 {
			if err := json.Unmarshal(coveragesJSON, &rec.Coverages); err != nil {
				return nil, fmt.Errorf("unmarshal coverages: %w", err)
			}
		}
		if len(vehiclesJSON) > 0 {
			if err := json.Unmarshal(vehiclesJSON, &rec.Vehicles); err != nil {
				return nil, fmt.Errorf("unmarshal vehicles: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
