package domain

import "time"

// NoOwner is the sentinel owner written when an asset is burned.
// It never matches a real caller identity, so every owner check on a
// burned record fails.
const NoOwner = Identity("")

// Identity is the external principal controlling an asset or balance.
// Callers arrive already authenticated by the host environment; this
// service only compares identities, it never verifies them.
type Identity string

// MaxURILength bounds the metadata URI of an asset record.
const MaxURILength = 200

// AssetRecord tracks one minted asset: its metadata pointer, its owner,
// and an optional sale price. SalePrice is present iff the asset is
// currently listed; a purchase clears it back to nil.
type AssetRecord struct {
	ID        string    `json:"id"`
	URI       string    `json:"uri"`
	Owner     Identity  `json:"owner"`
	SalePrice *int64    `json:"salePrice,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ForSale reports whether the record carries an active listing.
func (r *AssetRecord) ForSale() bool {
	return r.SalePrice != nil
}

// Burned reports whether the record has been reset to its dead state.
func (r *AssetRecord) Burned() bool {
	return r.Owner == NoOwner
}
