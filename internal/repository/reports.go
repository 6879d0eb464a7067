package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/common"
)

// ScoreReport is the combined grading outcome for one account pull.
type ScoreReport struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Status        constants.JobStatus
	CombinedScore *int
	CombinedGrade string
	Percentile    *int
	PolicyScores  map[string]PolicyScore
	RawModelJSON  []byte
	FailureReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PolicyScore is the per-policy-type breakdown stored inside a report.
type PolicyScore struct {
	Score        *float64          `json:"score,omitempty"`
	Grade        string            `json:"grade,omitempty"`
	CoreScore    int               `json:"core_score"`
	CoreMax      int               `json:"core_max"`
	BonusScore   int               `json:"bonus_score"`
	BonusMax     int               `json:"bonus_max"`
	CoverageNote string            `json:"coverage_note,omitempty"`
	Comments     map[string]string `json:"comments,omitempty"`
}

type ReportRepository interface {
	Create(ctx context.Context, accountID uuid.UUID) (*ScoreReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus, failureReason *string) error
	// Finalize stores the grading outcome and flips the report to GRADED.
	Finalize(ctx context.Context, report *ScoreReport) error
	LatestByAccount(ctx context.Context, accountID uuid.UUID) (*ScoreReport, error)
}

type reportRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReportRepository(pool *pgxpool.Pool, logger *slog.Logger) ReportRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportRepository{pool: pool, logger: logger}
}

func (r *reportRepository) Create(ctx context.Context, accountID uuid.UUID) (*ScoreReport, error) {
	const q = `
INSERT INTO score_reports (id, account_id, status, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
RETURNING created_at, updated_at`

	report := &ScoreReport{ID: uuid.New(), AccountID: accountID, Status: constants.JobStatusReceived}
	err := r.pool.QueryRow(ctx, q, report.ID, accountID, string(report.Status)).
		Scan(&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create score report", "account_id", accountID, "error", err)
		return nil, err
	}
	return report, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus, failureReason *string) error {
	const q = `
UPDATE score_reports SET status = $2, failure_reason = $3, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, id, string(status), failureReason)
	if err != nil {
		r.logger.Error("failed to update report status", "report_id", id, "status", status, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("score report %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *reportRepository) Finalize(ctx context.Context, report *ScoreReport) error {
	scoresJSON, err := json.Marshal(report.PolicyScores)
	if err != nil {
		return fmt.Errorf("marshal policy scores: %w", err)
	}

	const q = `
UPDATE score_reports SET
	status = $2, combined_score = $3, combined_grade = $4, percentile = $5,
	policy_scores = $6, raw_model_json = $7, updated_at = now()
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, report.ID, string(constants.JobStatusGraded),
		report.CombinedScore, report.CombinedGrade, report.Percentile,
		scoresJSON, report.RawModelJSON)
	if err != nil {
		r.logger.Error("failed to finalize score report", "report_id", report.ID, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("score report %s: %w", report.ID, common.ErrNotFound)
	}
	report.Status = constants.JobStatusGraded
	return nil
}

func (r *reportRepository) LatestByAccount(ctx context.Context, accountID uuid.UUID) (*ScoreReport, error) {
	const q = `
SELECT id, account_id, status, combined_score, combined_grade, percentile,
	policy_scores, raw_model_json, failure_reason, created_at, updated_at
FROM score_reports WHERE account_id = $1
ORDER BY created_at DESC LIMIT 1`

	var report ScoreReport
	var status string
	var grade *string
	var scoresJSON []byte
	err := r.pool.QueryRow(ctx, q, accountID).Scan(
		&report.ID, &report.AccountID, &status, &report.CombinedScore, &grade, &report.Percentile,
		&scoresJSON, &report.RawModelJSON, &report.FailureReason, &report.CreatedAt, &report.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no score report for account %s: %w", accountID, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to load latest report", "account_id", accountID, "error", err)
		return nil, err
	}
	report.Status = constants.JobStatus(status)
	if grade != nil {
		report.CombinedGrade = *grade
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &report.PolicyScores); err != nil {
			return nil, fmt.Errorf("unmarshal policy scores: %w", err)
		}
	}
	return &report, nil
}
