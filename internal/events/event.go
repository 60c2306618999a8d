package events

import (
	"time"

	"github.com/barkmint/market/internal/domain"
)

// Operation names for audit events, one per mutating lifecycle call.
const (
	OpMint           = "mint"
	OpBatchMint      = "batch_mint"
	OpUpdateMetadata = "update_metadata"
	OpTransfer       = "transfer"
	OpListForSale    = "list_for_sale"
	OpBurn           = "burn"
	OpPurchase       = "purchase"
)

// Event is the structured audit record emitted after every successful
// mutating operation. Parties maps a role ("owner", "buyer", "seller",
// "new_owner") to an identity; Amounts maps a settlement leg or field
// ("price", "seller_proceeds", "creator_fee", "platform_fee") to base
// units. Delivery is fire-and-forget: a failed emit never fails the
// operation that produced it.
type Event struct {
	ID        string                     `json:"id"`
	Operation string                     `json:"operation"`
	RecordID  string                     `json:"recordId"`
	Parties   map[string]domain.Identity `json:"parties,omitempty"`
	Amounts   map[string]int64           `json:"amounts,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}
