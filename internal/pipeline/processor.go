// Package pipeline orchestrates one connection pull end to end: normalize the
// raw payload, persist policies with their display strings, grade with the
// model, and fold the per-policy grades into one combined score report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/format"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/grading"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/repository"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/scoring"
)

// Processor coordinates normalize -> persist -> grade -> score for one pull.
type Processor struct {
	logger       *slog.Logger
	grader       grading.Grader
	accountsRepo repository.AccountRepository
	policiesRepo repository.PolicyRepository
	reportsRepo  repository.ReportRepository
}

func NewProcessor(
	logger *slog.Logger,
	grader grading.Grader,
	accountsRepo repository.AccountRepository,
	policiesRepo repository.PolicyRepository,
	reportsRepo repository.ReportRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:       logger,
		grader:       grader,
		accountsRepo: accountsRepo,
		policiesRepo: policiesRepo,
		reportsRepo:  reportsRepo,
	}
}

// ProcessPull normalizes a raw Canopy payload, stores the policies, grades
// them, and finalizes a score report. Returns the report ID; on a grading or
// persistence failure after the report exists, the report is flipped to FAILED
// and both the ID and the error are returned.
func (p *Processor) ProcessPull(ctx context.Context, raw []byte) (uuid.UUID, error) {
	start := time.Now()

	parsed, err := canopy.Normalize(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("normalize payload: %w", err)
	}

	account, err := p.accountsRepo.UpsertFromMetadata(ctx, externalAccountID(parsed.Metadata), parsed.Metadata)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert account: %w", err)
	}

	report, err := p.reportsRepo.Create(ctx, account.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create report: %w", err)
	}
	p.logger.Info("pipeline.pull.received",
		"account_id", account.ID,
		"report_id", report.ID,
		"policies", len(parsed.Policies),
	)

	records := buildRecords(account.ID, parsed.Policies)
	if err := p.policiesRepo.ReplaceForAccount(ctx, account.ID, records); err != nil {
		return report.ID, p.fail(ctx, report.ID, fmt.Errorf("store policies: %w", err))
	}
	if err := p.reportsRepo.UpdateStatus(ctx, report.ID, constants.JobStatusNormalized, nil); err != nil {
		return report.ID, err
	}

	if len(records) == 0 {
		return report.ID, p.fail(ctx, report.ID, fmt.Errorf("payload contained no recognizable policies"))
	}

	result, rawJSON, err := p.grader.GradePolicies(ctx, gradeRequest(account, records))
	if err != nil {
		return report.ID, p.fail(ctx, report.ID, fmt.Errorf("grade policies: %w", err))
	}

	finalize(report, result, rawJSON)
	if err := p.reportsRepo.Finalize(ctx, report); err != nil {
		return report.ID, p.fail(ctx, report.ID, fmt.Errorf("finalize report: %w", err))
	}

	p.logger.Info("pipeline.pull.graded",
		"account_id", account.ID,
		"report_id", report.ID,
		"combined_score", derefInt(report.CombinedScore),
		"combined_grade", report.CombinedGrade,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return report.ID, nil
}

func (p *Processor) fail(ctx context.Context, reportID uuid.UUID, cause error) error {
	reason := cause.Error()
	if err := p.reportsRepo.UpdateStatus(ctx, reportID, constants.JobStatusFailed, &reason); err != nil {
		p.logger.Error("pipeline.fail_status.error", "report_id", reportID, "err", err)
	}
	return cause
}

// externalAccountID picks the stable upstream identifier for the pull;
// account_id wins over pull_id, and an opaque fallback keeps unidentified
// payloads from colliding.
func externalAccountID(metadata map[string]any) string {
	for _, key := range []string{"account_id", "pull_id"} {
		if s, ok := metadata[key].(string); ok && s != "" {
			return s
		}
	}
	return "unidentified-" + uuid.NewString()
}

func buildRecords(accountID uuid.UUID, policies []canopy.ParsedPolicy) []repository.PolicyRecord {
	records := make([]repository.PolicyRecord, 0, len(policies))
	for _, pol := range policies {
		set := format.Coverages(pol)
		records = append(records, repository.PolicyRecord{
			ID:               uuid.New(),
			AccountID:        accountID,
			PolicyType:       pol.Type,
			Carrier:          pol.Carrier,
			PolicyNumber:     pol.PolicyNumber,
			Status:           pol.Status,
			PremiumCents:     pol.PremiumCents,
			AmountDueCents:   pol.AmountDueCents,
			AmountPaidCents:  pol.AmountPaidCents,
			PaidInFull:       pol.PaidInFull,
			VehicleCount:     pol.VehicleCount,
			EffectiveDate:    pol.EffectiveDate,
			ExpirationDate:   pol.ExpirationDate,
			CoverageString:   set.CoverageString,
			DeductibleString: set.DeductibleString,
			Coverages:        pol.Coverages,
			Vehicles:         pol.Vehicles,
		})
	}
	return records
}

func gradeRequest(account *repository.Account, records []repository.PolicyRecord) grading.GradeRequest {
	req := grading.GradeRequest{AccountID: account.ExternalID}
	if account.State != nil {
		req.State = *account.State
	}
	for _, rec := range records {
		req.Policies = append(req.Policies, grading.PolicySummary{
			PolicyType:       string(rec.PolicyType),
			Carrier:          rec.Carrier,
			CoverageString:   rec.CoverageString,
			DeductibleString: rec.DeductibleString,
		})
	}
	return req
}

// finalize folds the model's per-policy grades into the combined score,
// percentile, and per-type section tallies on the report.
func finalize(report *repository.ScoreReport, result grading.GradeResult, rawJSON []byte) {
	var home, auto, renters *scoring.TypeScore
	report.PolicyScores = make(map[string]repository.PolicyScore, len(result.Policies))

	for _, pg := range result.Policies {
		t, ok := constants.ClassifyTypeString(pg.PolicyType)
		if !ok {
			continue
		}
		ts := &scoring.TypeScore{Score: pg.Score, Grade: pg.Grade}
		switch t {
		case constants.PolicyTypeHome:
			home = mergeTypeScores(home, ts)
		case constants.PolicyTypeAuto:
			auto = mergeTypeScores(auto, ts)
		case constants.PolicyTypeRenters:
			renters = mergeTypeScores(renters, ts)
		}
		report.PolicyScores[string(t)] = policyScore(pg, t)
	}

	combined := scoring.Combine(home, auto, renters)
	report.CombinedScore = combined.Score
	report.CombinedGrade = combined.Grade
	if combined.Score != nil {
		pct := scoring.Percentile(float64(*combined.Score))
		report.Percentile = &pct
	}
	report.RawModelJSON = rawJSON
}

// mergeTypeScores collapses multiple grades for the same policy type (two
// autos, a home plus a condo) into one averaged score.
func mergeTypeScores(existing, next *scoring.TypeScore) *scoring.TypeScore {
	if existing == nil {
		return next
	}
	if existing.Score != nil && next.Score != nil {
		merged := scoring.MergeHomeScores(existing.Score, next.Score)
		return &scoring.TypeScore{Score: merged, Grade: existing.Grade}
	}
	if next.Score != nil {
		return next
	}
	return existing
}

func policyScore(pg grading.PolicyGrade, t constants.PolicyType) repository.PolicyScore {
	items := make([]scoring.ScoredCoverage, 0, len(pg.Coverages))
	comments := make(map[string]string)
	var bonusScore, bonusMax int
	for _, cg := range pg.Coverages {
		core := scoring.IsCoreCoverage(cg.Name, t)
		items = append(items, scoring.ScoredCoverage{Name: cg.Name, Score: cg.Score, Bonus: !core})
		if !core {
			bonusScore += int(cg.Score)
			bonusMax += scoring.MaxCoverageScore
		}
		if c := strings.TrimSpace(cg.Comment); c != "" {
			comments[cg.Name] = c
		}
	}
	section := scoring.Section(items, t)

	ps := repository.PolicyScore{
		Score:      pg.Score,
		Grade:      pg.Grade,
		CoreScore:  int(section.Score),
		CoreMax:    int(section.MaxScore),
		BonusScore: bonusScore,
		BonusMax:   bonusMax,
	}
	if len(comments) > 0 {
		ps.Comments = comments
	}
	if ps.Grade == "" && pg.Score != nil {
		ps.Grade = scoring.GradeFor(*pg.Score)
	}
	return ps
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
