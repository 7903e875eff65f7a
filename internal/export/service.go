package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"apptrack/internal/repository"
)

// Service produces XLSX bytes for application exports.
type Service struct {
	apps   *repository.ApplicationRepository
	logger *slog.Logger
}

func NewService(apps *repository.ApplicationRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{apps: apps, logger: logger}
}

// ExportApplicationsXLSX returns an XLSX workbook (as bytes) with every
// application matching the optional status filter.
func (s *Service) ExportApplicationsXLSX(ctx context.Context, status string) ([]byte, error) {
	start := time.Now()

	apps, _, err := s.apps.List(ctx, repository.ListFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Applications"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Company",
		"Position",
		"Applied Date",
		"Status",
		"Interview Date",
		"Rejection Date",
		"Rejection Reason",
		"Location",
		"Salary Range",
		"Contact Email",
		"Job URL",
		"Notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, a := range apps {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, a.CompanyName)
		write(2, a.Position)
		write(3, a.AppliedDate.Format("2006-01-02"))
		write(4, a.Status)
		if a.InterviewDate != nil {
			write(5, a.InterviewDate.Format("2006-01-02 15:04"))
		}
		if a.RejectionDate != nil {
			write(6, a.RejectionDate.Format("2006-01-02"))
		}
		write(7, deref(a.RejectionReason))
		write(8, deref(a.Location))
		write(9, deref(a.SalaryRange))
		write(10, deref(a.ContactEmail))
		write(11, deref(a.JobURL))
		write(12, truncate(deref(a.Notes), 140))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 26) // company, position
	_ = f.SetColWidth(sheet, "C", "F", 16) // dates, status
	_ = f.SetColWidth(sheet, "G", "G", 36) // rejection reason
	_ = f.SetColWidth(sheet, "H", "J", 22) // location, salary, contact
	_ = f.SetColWidth(sheet, "K", "K", 40) // url
	_ = f.SetColWidth(sheet, "L", "L", 48) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(apps),
		"status_filter", status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
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
