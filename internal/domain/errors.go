package domain

import "errors"

// Terminal error kinds surfaced by lifecycle operations. The first
// violated precondition aborts the whole operation; nothing is
// retried internally.
var (
	ErrInvalidMetadataURI = errors.New("metadata URI must be 1-200 characters")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrInvalidBatchSize   = errors.New("batch size must be between 1 and 10")
	ErrNotForSale         = errors.New("asset is not for sale")
	ErrOwnership          = errors.New("caller is not the asset owner")
)
