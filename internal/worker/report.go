package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/barkmint/market/internal/report"
)

// ReportGenerator defines the interface for generating activity reports.
type ReportGenerator interface {
	Generate(ctx context.Context, date time.Time) (report.ActivitySummary, error)
}

// AfterReportHook is called after each successful report generation.
type AfterReportHook interface {
	Export(ctx context.Context, summary report.ActivitySummary) error
}

// ReportWorker periodically generates daily activity reports.
type ReportWorker struct {
	generator ReportGenerator
	interval  time.Duration
	hook      AfterReportHook // optional
}

// NewReportWorker creates a new ReportWorker with an optional post-generation hook.
func NewReportWorker(generator ReportGenerator, interval time.Duration, hook AfterReportHook) *ReportWorker {
	return &ReportWorker{
		generator: generator,
		interval:  interval,
		hook:      hook,
	}
}

// runHook calls the post-generation hook if one is configured.
func (w *ReportWorker) runHook(ctx context.Context, summary report.ActivitySummary) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, summary); err != nil {
		slog.Error("ReportWorker: export hook failed", "error", err)
	} else {
		slog.Info("ReportWorker: export hook completed")
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the report worker loop. It blocks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	slog.Info("ReportWorker: starting")

	// Generate immediately on startup
	if summary, err := w.generator.Generate(ctx, utcDate()); err != nil {
		slog.Error("ReportWorker: initial generation failed", "error", err)
	} else {
		slog.Info("ReportWorker: initial generation completed")
		w.runHook(ctx, summary)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ReportWorker: shutting down")
			return
		case <-ticker.C:
			if summary, err := w.generator.Generate(ctx, utcDate()); err != nil {
				slog.Error("ReportWorker: generation failed", "error", err)
			} else {
				slog.Info("ReportWorker: generation completed")
				w.runHook(ctx, summary)
			}
		}
	}
}
