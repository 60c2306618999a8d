package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barkmint/market/internal/database"
)

// PgSink persists audit events in PostgreSQL and serves the audit
// query endpoints.
type PgSink struct {
	pool *pgxpool.Pool
}

// NewPgSink creates a PostgreSQL event sink.
func NewPgSink(pool *pgxpool.Pool) *PgSink {
	return &PgSink{pool: pool}
}

func (s *PgSink) Emit(ctx context.Context, ev Event) error {
	parties, err := json.Marshal(ev.Parties)
	if err != nil {
		return fmt.Errorf("marshaling parties: %w", err)
	}
	amounts, err := json.Marshal(ev.Amounts)
	if err != nil {
		return fmt.Errorf("marshaling amounts: %w", err)
	}

	q := database.From(ctx, s.pool)
	_, err = q.Exec(ctx,
		`INSERT INTO marketplace_events (id, operation, record_id, parties, amounts, created_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6)`,
		ev.ID, ev.Operation, ev.RecordID, parties, amounts, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListByRecord returns the audit trail of one asset, oldest first.
func (s *PgSink) ListByRecord(ctx context.Context, recordID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.list(ctx,
		`SELECT id, operation, record_id, parties, amounts, created_at
		 FROM marketplace_events
		 WHERE record_id = $1
		 ORDER BY created_at
		 LIMIT $2`, recordID, limit)
}

// ListRecent returns the most recent events, newest first.
func (s *PgSink) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.list(ctx,
		`SELECT id, operation, record_id, parties, amounts, created_at
		 FROM marketplace_events
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
}

// ListBetween returns events in [from, to), oldest first. The report
// service aggregates a day's activity from this.
func (s *PgSink) ListBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	return s.list(ctx,
		`SELECT id, operation, record_id, parties, amounts, created_at
		 FROM marketplace_events
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at`, from, to)
}

func (s *PgSink) list(ctx context.Context, sql string, args ...any) ([]Event, error) {
	q := database.From(ctx, s.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var evs []Event
	for rows.Next() {
		var (
			ev      Event
			parties []byte
			amounts []byte
		)
		if err := rows.Scan(&ev.ID, &ev.Operation, &ev.RecordID, &parties, &amounts, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if err := json.Unmarshal(parties, &ev.Parties); err != nil {
			return nil, fmt.Errorf("unmarshaling parties: %w", err)
		}
		if err := json.Unmarshal(amounts, &ev.Amounts); err != nil {
			return nil, fmt.Errorf("unmarshaling amounts: %w", err)
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return evs, nil
}
