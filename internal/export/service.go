package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/CryptoTuck/policy-pilot-sub000/internal/format"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for score reports.
type Service struct {
	reports  repository.ReportRepository
	policies repository.PolicyRepository
	logger   *slog.Logger
}

func NewService(reports repository.ReportRepository, policies repository.PolicyRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reports: reports, policies: policies, logger: logger}
}

// ExportReportXLSX returns an XLSX workbook (as bytes) with the latest score
// report for the account: one summary row, then one row per stored policy.
func (s *Service) ExportReportXLSX(ctx context.Context, accountID uuid.UUID) ([]byte, error) {
	start := time.Now()

	report, err := s.reports.LatestByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	policies, err := s.policies.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Score Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Policy Type",
		"Carrier",
		"Policy Number",
		"Status",
		"Premium",
		"Score",
		"Grade",
		"Coverages",
		"Deductibles",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Summary row first.
	write(1, 2, "combined")
	write(2, 2, "")
	write(3, 2, "")
	write(4, 2, string(report.Status))
	if report.CombinedScore != nil {
		write(6, 2, *report.CombinedScore)
	}
	write(7, 2, report.CombinedGrade)
	if report.Percentile != nil {
		write(8, 2, fmt.Sprintf("better than %d%% of comparable accounts", *report.Percentile))
	}

	row := 3
	for _, p := range policies {
		write(1, row, string(p.PolicyType))
		write(2, row, p.Carrier)
		write(3, row, p.PolicyNumber)
		write(4, row, p.Status)
		if p.PremiumCents != nil {
			write(5, row, format.Currency(*p.PremiumCents))
		}
		if ps, ok := report.PolicyScores[string(p.PolicyType)]; ok {
			if ps.Score != nil {
				write(6, row, *ps.Score)
			}
			write(7, row, ps.Grade)
		}
		write(8, row, truncate(p.CoverageString, 512))
		write(9, row, truncate(p.DeductibleString, 256))
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // type
	_ = f.SetColWidth(sheet, "B", "B", 24) // carrier
	_ = f.SetColWidth(sheet, "C", "C", 18) // policy number
	_ = f.SetColWidth(sheet, "D", "D", 12) // status
	_ = f.SetColWidth(sheet, "E", "G", 12) // premium/score/grade
	_ = f.SetColWidth(sheet, "H", "H", 80) // coverages
	_ = f.SetColWidth(sheet, "I", "I", 48) // deductibles

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"account_id", accountID.String(),
		"rows", len(policies),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
