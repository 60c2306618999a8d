package domain

import "testing"

func TestForSale(t *testing.T) {
	price := int64(100)

	r := AssetRecord{Owner: "alice"}
	if r.ForSale() {
		t.Error("unlisted record reported for sale")
	}

	r.SalePrice = &price
	if !r.ForSale() {
		t.Error("listed record reported not for sale")
	}
}

func TestBurned(t *testing.T) {
	r := AssetRecord{Owner: "alice"}
	if r.Burned() {
		t.Error("owned record reported burned")
	}

	r.Owner = NoOwner
	if !r.Burned() {
		t.Error("sentinel-owned record reported not burned")
	}
}

func TestFormatBaseUnits(t *testing.T) {
	tests := []struct {
		amount int64
		digits int32
		want   string
	}{
		{1234, 2, "12.34"},
		{100, 0, "100"},
		{1, 7, "0.0000001"},
		{0, 2, "0.00"},
	}

	for _, tt := range tests {
		if got := FormatBaseUnits(tt.amount, tt.digits); got != tt.want {
			t.Errorf("FormatBaseUnits(%d, %d) = %q, want %q", tt.amount, tt.digits, got, tt.want)
		}
	}
}
