package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/barkmint/market/internal/domain"
	"github.com/barkmint/market/internal/events"
)

type mockEventSource struct {
	evs []events.Event
}

func (m *mockEventSource) ListBetween(_ context.Context, _, _ time.Time) ([]events.Event, error) {
	return m.evs, nil
}

type mockRepo struct {
	saved     map[string]json.RawMessage
	savedDate time.Time
}

func (m *mockRepo) Save(_ context.Context, date time.Time, data json.RawMessage) error {
	if m.saved == nil {
		m.saved = make(map[string]json.RawMessage)
	}
	m.saved[date.Format("2006-01-02")] = data
	m.savedDate = date
	return nil
}

func (m *mockRepo) GetLatest(_ context.Context) (*Report, error) {
	return nil, ErrNotFound
}

func (m *mockRepo) GetByDate(_ context.Context, _ time.Time) (*Report, error) {
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context, _ int) ([]Report, error) {
	return nil, nil
}

func saleEvent(price, proceeds, creator, platform int64) events.Event {
	return events.Event{
		Operation: events.OpPurchase,
		Parties:   map[string]domain.Identity{"seller": "alice", "buyer": "bob"},
		Amounts: map[string]int64{
			"price":           price,
			"seller_proceeds": proceeds,
			"creator_fee":     creator,
			"platform_fee":    platform,
		},
	}
}

func TestSummarize(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	evs := []events.Event{
		{Operation: events.OpMint},
		{Operation: events.OpBatchMint},
		{Operation: events.OpBatchMint},
		{Operation: events.OpListForSale, Amounts: map[string]int64{"price": 100}},
		{Operation: events.OpTransfer},
		{Operation: events.OpBurn},
		saleEvent(100, 93, 5, 2),
		saleEvent(101, 94, 5, 2),
	}

	s := Summarize(date, evs)

	if s.Mints != 3 {
		t.Errorf("Mints = %d, want 3", s.Mints)
	}
	if s.Listings != 1 || s.Transfers != 1 || s.Burns != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.Sales != 2 {
		t.Errorf("Sales = %d, want 2", s.Sales)
	}
	if s.SaleVolume != 201 {
		t.Errorf("SaleVolume = %d, want 201", s.SaleVolume)
	}
	if s.SellerProceeds != 187 || s.CreatorFees != 10 || s.PlatformFees != 4 {
		t.Errorf("fee totals = %+v", s)
	}
	if s.SellerProceeds+s.CreatorFees+s.PlatformFees != s.SaleVolume {
		t.Error("legs do not sum to volume")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(time.Now().UTC(), nil)
	if s.Sales != 0 || s.SaleVolume != 0 || s.Mints != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestGenerateNormalizesDate(t *testing.T) {
	source := &mockEventSource{evs: []events.Event{saleEvent(100, 93, 5, 2)}}
	repo := &mockRepo{}
	svc := NewService(source, repo)

	at := time.Date(2026, 3, 1, 15, 42, 7, 0, time.UTC)
	summary, err := svc.Generate(context.Background(), at)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !repo.savedDate.Equal(want) {
		t.Errorf("saved date = %v, want %v", repo.savedDate, want)
	}
	if summary.SaleVolume != 100 {
		t.Errorf("SaleVolume = %d, want 100", summary.SaleVolume)
	}

	var stored ActivitySummary
	if err := json.Unmarshal(repo.saved["2026-03-01"], &stored); err != nil {
		t.Fatalf("unmarshaling stored report: %v", err)
	}
	if stored.Sales != 1 {
		t.Errorf("stored Sales = %d, want 1", stored.Sales)
	}
}
