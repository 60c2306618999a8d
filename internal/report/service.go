package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barkmint/market/internal/events"
)

// EventSource supplies the audit events a report is aggregated from.
type EventSource interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]events.Event, error)
}

// Service manages daily activity report generation and retrieval.
type Service struct {
	source EventSource
	repo   Repository
}

// NewService creates a report Service.
func NewService(source EventSource, repo Repository) *Service {
	return &Service{source: source, repo: repo}
}

// Generate aggregates the given day's events into an ActivitySummary
// and persists it, replacing any earlier report for the same date.
func (s *Service) Generate(ctx context.Context, date time.Time) (ActivitySummary, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	evs, err := s.source.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("fetching events: %w", err)
	}

	summary := Summarize(day, evs)

	data, err := json.Marshal(summary)
	if err != nil {
		return ActivitySummary{}, fmt.Errorf("marshaling summary: %w", err)
	}
	if err := s.repo.Save(ctx, day, data); err != nil {
		return ActivitySummary{}, fmt.Errorf("saving report: %w", err)
	}

	return summary, nil
}

// GetLatest retrieves the most recent report.
func (s *Service) GetLatest(ctx context.Context) (*Report, error) {
	return s.repo.GetLatest(ctx)
}

// GetByDate retrieves the report for a specific date.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*Report, error) {
	return s.repo.GetByDate(ctx, date)
}

// List retrieves recent reports.
func (s *Service) List(ctx context.Context, limit int) ([]Report, error) {
	return s.repo.List(ctx, limit)
}
