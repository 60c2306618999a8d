package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barkmint/market/internal/database"
	"github.com/barkmint/market/internal/domain"
)

// ErrNotFound indicates that the requested asset record does not exist.
var ErrNotFound = errors.New("asset record not found")

// PgStore persists asset records in PostgreSQL. Inside a transaction,
// GetForUpdate locks the row so operations against the same record
// serialize in submission order.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PostgreSQL asset-record store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Create(ctx context.Context, rec *domain.AssetRecord) error {
	q := database.From(ctx, s.pool)
	_, err := q.Exec(ctx,
		`INSERT INTO asset_records (id, uri, owner_identity, sale_price, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.URI, string(rec.Owner), rec.SalePrice, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting asset record: %w", err)
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, id string) (*domain.AssetRecord, error) {
	return s.get(ctx, id, false)
}

func (s *PgStore) GetForUpdate(ctx context.Context, id string) (*domain.AssetRecord, error) {
	return s.get(ctx, id, true)
}

func (s *PgStore) get(ctx context.Context, id string, lock bool) (*domain.AssetRecord, error) {
	sql := `SELECT id, uri, owner_identity, sale_price, created_at, updated_at
		 FROM asset_records WHERE id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}

	var (
		rec   domain.AssetRecord
		owner string
	)
	q := database.From(ctx, s.pool)
	err := q.QueryRow(ctx, sql, id).Scan(
		&rec.ID, &rec.URI, &owner, &rec.SalePrice, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting asset record: %w", err)
	}
	rec.Owner = domain.Identity(owner)
	return &rec, nil
}

func (s *PgStore) Update(ctx context.Context, rec *domain.AssetRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	q := database.From(ctx, s.pool)
	tag, err := q.Exec(ctx,
		`UPDATE asset_records
		 SET uri = $2, owner_identity = $3, sale_price = $4, updated_at = $5
		 WHERE id = $1`,
		rec.ID, rec.URI, string(rec.Owner), rec.SalePrice, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating asset record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the records currently owned by the identity,
// newest first.
func (s *PgStore) ListByOwner(ctx context.Context, owner domain.Identity, limit int) ([]domain.AssetRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	q := database.From(ctx, s.pool)
	rows, err := q.Query(ctx,
		`SELECT id, uri, owner_identity, sale_price, created_at, updated_at
		 FROM asset_records
		 WHERE owner_identity = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, string(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("listing asset records: %w", err)
	}
	defer rows.Close()

	var recs []domain.AssetRecord
	for rows.Next() {
		var (
			rec   domain.AssetRecord
			ident string
		)
		if err := rows.Scan(&rec.ID, &rec.URI, &ident, &rec.SalePrice, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset record: %w", err)
		}
		rec.Owner = domain.Identity(ident)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset records: %w", err)
	}
	return recs, nil
}
