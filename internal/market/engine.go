package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/barkmint/market/internal/domain"
	"github.com/barkmint/market/internal/events"
)

// Store defines persistent storage for asset records. GetForUpdate
// must lock the record for the duration of the surrounding
// transaction so operations against the same record serialize.
type Store interface {
	Create(ctx context.Context, rec *domain.AssetRecord) error
	Get(ctx context.Context, id string) (*domain.AssetRecord, error)
	GetForUpdate(ctx context.Context, id string) (*domain.AssetRecord, error)
	Update(ctx context.Context, rec *domain.AssetRecord) error
	ListByOwner(ctx context.Context, owner domain.Identity, limit int) ([]domain.AssetRecord, error)
}

// Custody is the token-custody collaborator backing every asset and
// balance. Each call must be atomic within the surrounding transaction
// and must fail loudly on insufficient balance or authorization.
type Custody interface {
	MintTo(ctx context.Context, assetID string, dest domain.Identity) error
	Burn(ctx context.Context, assetID string, source domain.Identity) error
	TransferNative(ctx context.Context, from, to domain.Identity, amount int64) error
	TransferToken(ctx context.Context, tokenID string, from, to domain.Identity, amount int64) error
}

// Sink accepts audit events. Delivery is fire-and-forget.
type Sink interface {
	Emit(ctx context.Context, ev events.Event) error
}

// TxRunner wraps a function in the host environment's atomic
// transaction: fn either fully commits or every change it made is
// rolled back. The engine sequences settlement legs inside it and
// never attempts compensation itself.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Beneficiaries are the fixed fee recipients, injected at construction
// so tests can substitute fixtures.
type Beneficiaries struct {
	Creator  domain.Identity
	Platform domain.Identity
}

// Engine implements the asset lifecycle state machine and the
// purchase settlement protocol over an injected store, custody ledger
// and event sink.
type Engine struct {
	store    Store
	custody  Custody
	sink     Sink
	tx       TxRunner
	fees     FeePolicy
	bene     Beneficiaries
	maxBatch int
}

// NewEngine creates a lifecycle engine.
func NewEngine(store Store, custody Custody, sink Sink, tx TxRunner, fees FeePolicy, bene Beneficiaries, maxBatch int) *Engine {
	return &Engine{
		store:    store,
		custody:  custody,
		sink:     sink,
		tx:       tx,
		fees:     fees,
		bene:     bene,
		maxBatch: maxBatch,
	}
}

// Get retrieves an asset record without locking it.
func (e *Engine) Get(ctx context.Context, id string) (*domain.AssetRecord, error) {
	return e.store.Get(ctx, id)
}

// ListByOwner retrieves the records an identity currently owns.
func (e *Engine) ListByOwner(ctx context.Context, owner domain.Identity, limit int) ([]domain.AssetRecord, error) {
	return e.store.ListByOwner(ctx, owner, limit)
}

// Mint creates a new asset record owned by the caller and issues its
// backing custody unit.
func (e *Engine) Mint(ctx context.Context, caller domain.Identity, uri string) (*domain.AssetRecord, error) {
	if err := ValidateURI(uri); err != nil {
		return nil, err
	}

	rec := newRecord(uri, caller)
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := e.store.Create(ctx, rec); err != nil {
			return fmt.Errorf("creating record: %w", err)
		}
		if err := e.custody.MintTo(ctx, rec.ID, caller); err != nil {
			return fmt.Errorf("issuing custody unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpMint,
		RecordID:  rec.ID,
		Parties:   map[string]domain.Identity{"owner": caller},
	})
	return rec, nil
}

// BatchMint mints one asset per URI, in order, as a single atomic
// unit: a validation or custody failure on any item rolls back the
// entire batch.
func (e *Engine) BatchMint(ctx context.Context, caller domain.Identity, uris []string) ([]*domain.AssetRecord, error) {
	if len(uris) == 0 || len(uris) > e.maxBatch {
		return nil, domain.ErrInvalidBatchSize
	}

	recs := make([]*domain.AssetRecord, 0, len(uris))
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		for _, uri := range uris {
			if err := ValidateURI(uri); err != nil {
				return err
			}
			rec := newRecord(uri, caller)
			if err := e.store.Create(ctx, rec); err != nil {
				return fmt.Errorf("creating record: %w", err)
			}
			if err := e.custody.MintTo(ctx, rec.ID, caller); err != nil {
				return fmt.Errorf("issuing custody unit: %w", err)
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		e.emit(ctx, events.Event{
			Operation: events.OpBatchMint,
			RecordID:  rec.ID,
			Parties:   map[string]domain.Identity{"owner": caller},
		})
	}
	return recs, nil
}

// UpdateMetadata replaces the metadata URI of an asset the caller owns.
func (e *Engine) UpdateMetadata(ctx context.Context, caller domain.Identity, id, newURI string) (*domain.AssetRecord, error) {
	if err := ValidateURI(newURI); err != nil {
		return nil, err
	}

	rec, err := e.mutate(ctx, caller, id, func(_ context.Context, rec *domain.AssetRecord) error {
		rec.URI = newURI
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpUpdateMetadata,
		RecordID:  rec.ID,
		Parties:   map[string]domain.Identity{"owner": caller},
	})
	return rec, nil
}

// Transfer reassigns ownership of an asset the caller owns.
func (e *Engine) Transfer(ctx context.Context, caller domain.Identity, id string, newOwner domain.Identity) (*domain.AssetRecord, error) {
	rec, err := e.mutate(ctx, caller, id, func(_ context.Context, rec *domain.AssetRecord) error {
		rec.Owner = newOwner
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpTransfer,
		RecordID:  rec.ID,
		Parties:   map[string]domain.Identity{"owner": caller, "new_owner": newOwner},
	})
	return rec, nil
}

// ListForSale puts an asset the caller owns on the market at the
// given price in base units.
func (e *Engine) ListForSale(ctx context.Context, caller domain.Identity, id string, price int64) (*domain.AssetRecord, error) {
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}

	rec, err := e.mutate(ctx, caller, id, func(_ context.Context, rec *domain.AssetRecord) error {
		rec.SalePrice = &price
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpListForSale,
		RecordID:  rec.ID,
		Parties:   map[string]domain.Identity{"owner": caller},
		Amounts:   map[string]int64{"price": price},
	})
	return rec, nil
}

// Burn irreversibly destroys the backing custody unit and resets the
// record to its dead state: empty URI, sentinel owner, no listing.
// The record is never matched by a later owner check, so burning
// twice fails with an ownership error.
func (e *Engine) Burn(ctx context.Context, caller domain.Identity, id string) error {
	_, err := e.mutate(ctx, caller, id, func(ctx context.Context, rec *domain.AssetRecord) error {
		if err := e.custody.Burn(ctx, rec.ID, caller); err != nil {
			return fmt.Errorf("burning custody unit: %w", err)
		}
		rec.URI = ""
		rec.Owner = domain.NoOwner
		rec.SalePrice = nil
		return nil
	})
	if err != nil {
		return err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpBurn,
		RecordID:  id,
		Parties:   map[string]domain.Identity{"owner": caller},
	})
	return nil
}

// Purchase settles a listed asset to the buyer. The recorded sale
// price is authoritative; the split is recomputed from it and the
// three legs move inside one transaction together with the ownership
// flip. Any failed leg rolls back the whole purchase.
func (e *Engine) Purchase(ctx context.Context, buyer domain.Identity, id string, pm domain.PaymentMethod) (*domain.AssetRecord, error) {
	var (
		rec    *domain.AssetRecord
		seller domain.Identity
		price  int64
		split  FeeSplit
	)

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = e.store.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !rec.ForSale() {
			return domain.ErrNotForSale
		}

		price = *rec.SalePrice
		if err := ValidatePrice(price); err != nil {
			return err
		}

		seller = rec.Owner
		split = e.fees.Split(price)

		if err := e.settle(ctx, buyer, seller, pm, split); err != nil {
			return err
		}

		rec.Owner = buyer
		rec.SalePrice = nil
		if err := e.store.Update(ctx, rec); err != nil {
			return fmt.Errorf("updating record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, events.Event{
		Operation: events.OpPurchase,
		RecordID:  rec.ID,
		Parties:   map[string]domain.Identity{"seller": seller, "buyer": buyer},
		Amounts: map[string]int64{
			"price":           price,
			"seller_proceeds": split.SellerProceeds,
			"creator_fee":     split.CreatorFee,
			"platform_fee":    split.PlatformFee,
		},
	})
	return rec, nil
}

// settle moves the three settlement legs over the selected rail. Each
// leg must individually succeed; the caller's transaction rolls back
// partial movement on failure.
func (e *Engine) settle(ctx context.Context, buyer, seller domain.Identity, pm domain.PaymentMethod, split FeeSplit) error {
	switch p := pm.(type) {
	case domain.NativePayment:
		if err := e.custody.TransferNative(ctx, buyer, seller, split.SellerProceeds); err != nil {
			return fmt.Errorf("seller leg: %w", err)
		}
		if err := e.custody.TransferNative(ctx, buyer, e.bene.Creator, split.CreatorFee); err != nil {
			return fmt.Errorf("creator leg: %w", err)
		}
		if err := e.custody.TransferNative(ctx, buyer, e.bene.Platform, split.PlatformFee); err != nil {
			return fmt.Errorf("platform leg: %w", err)
		}
	case domain.TokenPayment:
		if err := e.custody.TransferToken(ctx, p.TokenID, buyer, seller, split.SellerProceeds); err != nil {
			return fmt.Errorf("seller leg: %w", err)
		}
		if err := e.custody.TransferToken(ctx, p.TokenID, buyer, e.bene.Creator, split.CreatorFee); err != nil {
			return fmt.Errorf("creator leg: %w", err)
		}
		if err := e.custody.TransferToken(ctx, p.TokenID, buyer, e.bene.Platform, split.PlatformFee); err != nil {
			return fmt.Errorf("platform leg: %w", err)
		}
	default:
		return fmt.Errorf("unknown payment method %T", pm)
	}
	return nil
}

// mutate runs an owner-authorized in-place mutation of one record
// inside a transaction with the record row locked.
func (e *Engine) mutate(ctx context.Context, caller domain.Identity, id string, fn func(ctx context.Context, rec *domain.AssetRecord) error) (*domain.AssetRecord, error) {
	var rec *domain.AssetRecord
	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = e.store.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := CheckOwnership(caller, rec.Owner); err != nil {
			return err
		}
		if err := fn(ctx, rec); err != nil {
			return err
		}
		if err := e.store.Update(ctx, rec); err != nil {
			return fmt.Errorf("updating record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (e *Engine) emit(ctx context.Context, ev events.Event) {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	if err := e.sink.Emit(ctx, ev); err != nil {
		slog.Error("failed to emit audit event", "operation", ev.Operation, "record_id", ev.RecordID, "error", err)
	}
}

func newRecord(uri string, owner domain.Identity) *domain.AssetRecord {
	now := time.Now().UTC()
	return &domain.AssetRecord{
		ID:        uuid.NewString(),
		URI:       uri,
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
