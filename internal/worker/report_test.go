package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/barkmint/market/internal/report"
)

type mockReportGenerator struct {
	callCount atomic.Int32
	err       error
}

func (m *mockReportGenerator) Generate(_ context.Context, _ time.Time) (report.ActivitySummary, error) {
	m.callCount.Add(1)
	return report.ActivitySummary{}, m.err
}

type mockHook struct {
	callCount atomic.Int32
}

func (m *mockHook) Export(_ context.Context, _ report.ActivitySummary) error {
	m.callCount.Add(1)
	return nil
}

func TestReportWorkerRunsAndShutdown(t *testing.T) {
	mock := &mockReportGenerator{}
	w := NewReportWorker(mock, 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 1 {
		t.Errorf("call count = %d, want >= 1", got)
	}
}

func TestReportWorkerRunsHook(t *testing.T) {
	gen := &mockReportGenerator{}
	hook := &mockHook{}
	w := NewReportWorker(gen, time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 1 {
		t.Errorf("hook call count = %d, want 1", got)
	}
}

func TestReportWorkerSkipsHookOnFailure(t *testing.T) {
	gen := &mockReportGenerator{err: errors.New("aggregation failed")}
	hook := &mockHook{}
	w := NewReportWorker(gen, time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := hook.callCount.Load(); got != 0 {
		t.Errorf("hook call count = %d, want 0", got)
	}
}
