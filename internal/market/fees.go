package market

// FeePolicy holds the marketplace fee percentages. Fees use integer
// division truncating toward zero; the truncation remainder stays with
// the seller.
type FeePolicy struct {
	CreatorPercent  int64
	PlatformPercent int64
}

// FeeSplit is the three-way division of a sale price.
type FeeSplit struct {
	CreatorFee     int64
	PlatformFee    int64
	SellerProceeds int64
}

// CreatorFee returns the creator beneficiary's cut of a sale price.
func (p FeePolicy) CreatorFee(price int64) int64 {
	return price * p.CreatorPercent / 100
}

// PlatformFee returns the platform beneficiary's cut of a sale price.
func (p FeePolicy) PlatformFee(price int64) int64 {
	return price * p.PlatformPercent / 100
}

// Split divides a sale price into the three settlement legs. The legs
// always sum to exactly price.
func (p FeePolicy) Split(price int64) FeeSplit {
	creator := p.CreatorFee(price)
	platform := p.PlatformFee(price)
	return FeeSplit{
		CreatorFee:     creator,
		PlatformFee:    platform,
		SellerProceeds: price - creator - platform,
	}
}
