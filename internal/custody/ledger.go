// Package custody realizes the token-custody collaborator as a
// PostgreSQL ledger: native balances, per-token accounts, and
// delegated-transfer allowances. Every call is atomic within the
// surrounding transaction and fails loudly; balances never silently
// truncate below zero.
package custody

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barkmint/market/internal/database"
	"github.com/barkmint/market/internal/domain"
)

var (
	// ErrInsufficientFunds indicates a debit larger than the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientAllowance indicates a delegated transfer beyond the
	// amount the account holder authorized.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrUnitNotHeld indicates a burn of a unit the source does not hold.
	ErrUnitNotHeld = errors.New("custody unit not held by source")
)

// PgLedger is the PostgreSQL custody ledger.
type PgLedger struct {
	pool *pgxpool.Pool
}

// NewPgLedger creates a custody ledger over the given pool.
func NewPgLedger(pool *pgxpool.Pool) *PgLedger {
	return &PgLedger{pool: pool}
}

// MintTo issues the single custody unit backing an asset to dest.
func (l *PgLedger) MintTo(ctx context.Context, assetID string, dest domain.Identity) error {
	q := database.From(ctx, l.pool)
	_, err := q.Exec(ctx,
		`INSERT INTO custody_units (asset_id, holder) VALUES ($1, $2)`,
		assetID, string(dest))
	if err != nil {
		return fmt.Errorf("issuing custody unit for %s: %w", assetID, err)
	}
	return nil
}

// Burn irreversibly destroys the custody unit backing an asset. It
// fails if source does not hold the unit.
func (l *PgLedger) Burn(ctx context.Context, assetID string, source domain.Identity) error {
	q := database.From(ctx, l.pool)
	tag, err := q.Exec(ctx,
		`DELETE FROM custody_units WHERE asset_id = $1 AND holder = $2`,
		assetID, string(source))
	if err != nil {
		return fmt.Errorf("burning custody unit for %s: %w", assetID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUnitNotHeld
	}
	return nil
}

// TransferNative moves native currency between principal balances.
func (l *PgLedger) TransferNative(ctx context.Context, from, to domain.Identity, amount int64) error {
	q := database.From(ctx, l.pool)

	tag, err := q.Exec(ctx,
		`UPDATE native_balances SET balance = balance - $2
		 WHERE account = $1 AND balance >= $2`,
		string(from), amount)
	if err != nil {
		return fmt.Errorf("debiting %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}

	_, err = q.Exec(ctx,
		`INSERT INTO native_balances (account, balance) VALUES ($1, $2)
		 ON CONFLICT (account) DO UPDATE SET balance = native_balances.balance + $2`,
		string(to), amount)
	if err != nil {
		return fmt.Errorf("crediting %s: %w", to, err)
	}
	return nil
}

// Approve records the holder's authorization for the marketplace to
// draw up to amount from their token account. A purchase's delegated
// legs consume this allowance; their sum may not exceed it.
func (l *PgLedger) Approve(ctx context.Context, tokenID string, owner domain.Identity, amount int64) error {
	q := database.From(ctx, l.pool)
	_, err := q.Exec(ctx,
		`INSERT INTO token_allowances (token_id, owner_identity, remaining) VALUES ($1, $2, $3)
		 ON CONFLICT (token_id, owner_identity) DO UPDATE SET remaining = $3`,
		tokenID, string(owner), amount)
	if err != nil {
		return fmt.Errorf("approving allowance: %w", err)
	}
	return nil
}

// TransferToken moves fungible tokens between accounts under the
// source holder's prior allowance.
func (l *PgLedger) TransferToken(ctx context.Context, tokenID string, from, to domain.Identity, amount int64) error {
	q := database.From(ctx, l.pool)

	tag, err := q.Exec(ctx,
		`UPDATE token_allowances SET remaining = remaining - $3
		 WHERE token_id = $1 AND owner_identity = $2 AND remaining >= $3`,
		tokenID, string(from), amount)
	if err != nil {
		return fmt.Errorf("consuming allowance of %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientAllowance
	}

	tag, err = q.Exec(ctx,
		`UPDATE token_accounts SET balance = balance - $3
		 WHERE token_id = $1 AND account = $2 AND balance >= $3`,
		tokenID, string(from), amount)
	if err != nil {
		return fmt.Errorf("debiting token account of %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}

	_, err = q.Exec(ctx,
		`INSERT INTO token_accounts (token_id, account, balance) VALUES ($1, $2, $3)
		 ON CONFLICT (token_id, account) DO UPDATE SET balance = token_accounts.balance + $3`,
		tokenID, string(to), amount)
	if err != nil {
		return fmt.Errorf("crediting token account of %s: %w", to, err)
	}
	return nil
}

// NativeBalance reports an account's native balance. Unknown accounts
// hold zero.
func (l *PgLedger) NativeBalance(ctx context.Context, account domain.Identity) (int64, error) {
	q := database.From(ctx, l.pool)
	var balance int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(
			(SELECT balance FROM native_balances WHERE account = $1), 0)`,
		string(account)).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("reading native balance: %w", err)
	}
	return balance, nil
}
