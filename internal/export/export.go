package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/barkmint/market/internal/domain"
	"github.com/barkmint/market/internal/report"
)

// activityHeader is the column layout shared by every ReportWriter.
var activityHeader = []any{
	"Date", "Mints", "Burns", "Transfers", "Listings", "Sales",
	"Sale Volume", "Seller Proceeds", "Creator Fees", "Platform Fees",
}

// ReportWriter writes activity rows to a spreadsheet destination.
type ReportWriter interface {
	Write(ctx context.Context, rows [][]any) error
}

// Service assembles the activity history and delegates writing to the
// configured ReportWriters.
type Service struct {
	repo    report.Repository
	writers []ReportWriter
	digits  int32
	history int
}

// NewService creates an export Service. digits controls how base units
// render in monetary cells.
func NewService(repo report.Repository, digits int32, writers ...ReportWriter) *Service {
	return &Service{
		repo:    repo,
		writers: writers,
		digits:  digits,
		history: 90,
	}
}

// Export writes the recent activity history, ending with the given
// summary, to every writer. Implements worker.AfterReportHook.
func (s *Service) Export(ctx context.Context, summary report.ActivitySummary) error {
	reports, err := s.repo.List(ctx, s.history)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	summaries := make([]report.ActivitySummary, 0, len(reports)+1)
	for _, rep := range reports {
		var hist report.ActivitySummary
		if err := json.Unmarshal(rep.Data, &hist); err != nil {
			slog.Warn("export: skipping unreadable report", "date", rep.ReportDate, "error", err)
			continue
		}
		if hist.Date.Equal(summary.Date) {
			continue
		}
		summaries = append(summaries, hist)
	}
	// List returns newest first; rows read top-down oldest first.
	summaries = lo.Reverse(summaries)
	summaries = append(summaries, summary)

	rows := s.buildRows(summaries)
	for _, w := range s.writers {
		if err := w.Write(ctx, rows); err != nil {
			return fmt.Errorf("writing activity report: %w", err)
		}
	}
	return nil
}

func (s *Service) buildRows(summaries []report.ActivitySummary) [][]any {
	rows := make([][]any, 0, len(summaries)+1)
	rows = append(rows, activityHeader)
	for _, sum := range summaries {
		rows = append(rows, []any{
			sum.Date.Format("2006-01-02"),
			sum.Mints,
			sum.Burns,
			sum.Transfers,
			sum.Listings,
			sum.Sales,
			domain.FormatBaseUnits(sum.SaleVolume, s.digits),
			domain.FormatBaseUnits(sum.SellerProceeds, s.digits),
			domain.FormatBaseUnits(sum.CreatorFees, s.digits),
			domain.FormatBaseUnits(sum.PlatformFees, s.digits),
		})
	}
	return rows
}
