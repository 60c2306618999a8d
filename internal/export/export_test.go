package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/barkmint/market/internal/report"
)

type mockReportRepo struct {
	reports []report.Report
}

func (m *mockReportRepo) Save(_ context.Context, _ time.Time, _ json.RawMessage) error {
	return nil
}

func (m *mockReportRepo) GetLatest(_ context.Context) (*report.Report, error) {
	return nil, report.ErrNotFound
}

func (m *mockReportRepo) GetByDate(_ context.Context, _ time.Time) (*report.Report, error) {
	return nil, report.ErrNotFound
}

func (m *mockReportRepo) List(_ context.Context, _ int) ([]report.Report, error) {
	return m.reports, nil
}

type captureWriter struct {
	rows [][]any
}

func (w *captureWriter) Write(_ context.Context, rows [][]any) error {
	w.rows = rows
	return nil
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func storedSummary(t *testing.T, s report.ActivitySummary) report.Report {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshaling summary: %v", err)
	}
	return report.Report{ReportDate: s.Date, Data: data}
}

func TestExportBuildsHistoryRows(t *testing.T) {
	repo := &mockReportRepo{reports: []report.Report{
		// Newest first, as the repository returns them.
		storedSummary(t, report.ActivitySummary{Date: day(2), Sales: 2, SaleVolume: 201}),
		storedSummary(t, report.ActivitySummary{Date: day(1), Sales: 1, SaleVolume: 100}),
	}}
	writer := &captureWriter{}
	svc := NewService(repo, 2, writer)

	current := report.ActivitySummary{Date: day(3), Sales: 3, SaleVolume: 300, CreatorFees: 15}
	if err := svc.Export(context.Background(), current); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Header plus three days, oldest first.
	if len(writer.rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(writer.rows))
	}
	if writer.rows[1][0] != "2026-03-01" || writer.rows[2][0] != "2026-03-02" || writer.rows[3][0] != "2026-03-03" {
		t.Errorf("row order = %v %v %v", writer.rows[1][0], writer.rows[2][0], writer.rows[3][0])
	}
	// 300 base units with 2 display digits.
	if writer.rows[3][6] != "3.00" {
		t.Errorf("volume cell = %v, want 3.00", writer.rows[3][6])
	}
	if writer.rows[3][8] != "0.15" {
		t.Errorf("creator fee cell = %v, want 0.15", writer.rows[3][8])
	}
}

func TestExportReplacesSameDayReport(t *testing.T) {
	repo := &mockReportRepo{reports: []report.Report{
		storedSummary(t, report.ActivitySummary{Date: day(1), Sales: 1}),
	}}
	writer := &captureWriter{}
	svc := NewService(repo, 2, writer)

	// Regenerating day 1 must not duplicate its row.
	if err := svc.Export(context.Background(), report.ActivitySummary{Date: day(1), Sales: 5}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(writer.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(writer.rows))
	}
	if writer.rows[1][5] != 5 {
		t.Errorf("sales cell = %v, want 5", writer.rows[1][5])
	}
}
