package market

import (
	"github.com/barkmint/market/internal/domain"
)

// ValidateURI accepts metadata URIs of 1-200 bytes.
func ValidateURI(uri string) error {
	if n := len(uri); n == 0 || n > domain.MaxURILength {
		return domain.ErrInvalidMetadataURI
	}
	return nil
}

// ValidatePrice accepts strictly positive prices. Zero is never a
// valid listed price.
func ValidatePrice(price int64) error {
	if price <= 0 {
		return domain.ErrInvalidPrice
	}
	return nil
}

// CheckOwnership compares an already-authenticated caller against the
// recorded owner. Authorization only; authentication is the host
// environment's job.
func CheckOwnership(caller, owner domain.Identity) error {
	if caller != owner {
		return domain.ErrOwnership
	}
	return nil
}
