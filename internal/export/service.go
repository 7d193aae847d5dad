package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

// Service produces XLSX bytes for policy exports.
type Service struct {
	policies repository.PolicyRepository
	logger   *slog.Logger
}

func NewService(policies repository.PolicyRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{policies: policies, logger: logger}
}

var exportHeaders = []string{
	"Carrier",
	"Category",
	"Policy Number",
	"Product Name",
	"Insured",
	"Start Date",
	"Coverage Amount",
	"Annual Premium",
	"Payment Years",
	"Beneficiary",
	"Interest Rate",
	"Currency",
	"Exchange Rate",
	"Converted Amount",
	"Completeness",
	"Source",
	"Created At",
}

// ExportPoliciesXLSX returns an XLSX workbook (as bytes) for the policies
// matching the filter.
func (s *Service) ExportPoliciesXLSX(ctx context.Context, filter repository.PolicyFilter) ([]byte, error) {
	start := time.Now()

	policies, err := s.policies.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Policies"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range policies {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, p.Carrier)
		write(2, p.Category)
		write(3, p.PolicyNumber)
		write(4, p.Name)
		write(5, p.Insured)
		write(6, p.StartDate)
		write(7, p.CoverageAmount)
		write(8, p.AnnualPremium)
		write(9, p.PaymentYears)
		write(10, p.Beneficiary)
		write(11, p.InterestRate)
		write(12, p.Currency)
		write(13, p.ExchangeRate)
		write(14, p.ConvertedAmount)
		write(15, fmt.Sprintf("%.0f%%", p.Completeness*100))
		write(16, p.Source)
		write(17, p.CreatedAt.Format("2006-01-02"))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 16)
	_ = f.SetColWidth(sheet, "C", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "G", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(policies),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
