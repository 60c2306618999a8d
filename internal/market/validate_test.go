package market

import (
	"errors"
	"strings"
	"testing"

	"github.com/barkmint/market/internal/domain"
)

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		ok   bool
	}{
		{"single char", "a", true},
		{"typical", "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", true},
		{"exactly 200", strings.Repeat("x", 200), true},
		{"empty", "", false},
		{"201 chars", strings.Repeat("x", 201), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.uri)
			if tt.ok && err != nil {
				t.Errorf("ValidateURI(%q) = %v, want nil", tt.uri, err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalidMetadataURI) {
				t.Errorf("ValidateURI(%q) = %v, want ErrInvalidMetadataURI", tt.uri, err)
			}
		})
	}
}

func TestValidatePrice(t *testing.T) {
	if err := ValidatePrice(1); err != nil {
		t.Errorf("ValidatePrice(1) = %v, want nil", err)
	}
	if err := ValidatePrice(1_000_000); err != nil {
		t.Errorf("ValidatePrice(1000000) = %v, want nil", err)
	}
	if err := ValidatePrice(0); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("ValidatePrice(0) = %v, want ErrInvalidPrice", err)
	}
	if err := ValidatePrice(-5); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("ValidatePrice(-5) = %v, want ErrInvalidPrice", err)
	}
}

func TestCheckOwnership(t *testing.T) {
	if err := CheckOwnership("alice", "alice"); err != nil {
		t.Errorf("matching identities = %v, want nil", err)
	}
	if err := CheckOwnership("bob", "alice"); !errors.Is(err, domain.ErrOwnership) {
		t.Errorf("mismatched identities = %v, want ErrOwnership", err)
	}
	// The burn sentinel never matches a real caller.
	if err := CheckOwnership("alice", domain.NoOwner); !errors.Is(err, domain.ErrOwnership) {
		t.Errorf("sentinel owner = %v, want ErrOwnership", err)
	}
}
