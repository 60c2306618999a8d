package market

import "testing"

var testFees = FeePolicy{CreatorPercent: 5, PlatformPercent: 2}

func TestSplitExactness(t *testing.T) {
	tests := []struct {
		price    int64
		creator  int64
		platform int64
		seller   int64
	}{
		{100, 5, 2, 93},
		// Truncation remainder stays with the seller.
		{101, 5, 2, 94},
		{1, 0, 0, 1},
		{19, 0, 0, 19},
		{20, 1, 0, 19},
		{50, 2, 1, 47},
		{1_000_000, 50_000, 20_000, 930_000},
	}

	for _, tt := range tests {
		split := testFees.Split(tt.price)
		if split.CreatorFee != tt.creator {
			t.Errorf("Split(%d).CreatorFee = %d, want %d", tt.price, split.CreatorFee, tt.creator)
		}
		if split.PlatformFee != tt.platform {
			t.Errorf("Split(%d).PlatformFee = %d, want %d", tt.price, split.PlatformFee, tt.platform)
		}
		if split.SellerProceeds != tt.seller {
			t.Errorf("Split(%d).SellerProceeds = %d, want %d", tt.price, split.SellerProceeds, tt.seller)
		}
	}
}

func TestSplitSumsToPrice(t *testing.T) {
	for price := int64(1); price <= 1000; price++ {
		split := testFees.Split(price)
		if sum := split.CreatorFee + split.PlatformFee + split.SellerProceeds; sum != price {
			t.Fatalf("legs of Split(%d) sum to %d", price, sum)
		}
		if split.CreatorFee+split.PlatformFee > price {
			t.Fatalf("fees of Split(%d) exceed price", price)
		}
	}
}
