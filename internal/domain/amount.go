package domain

import "github.com/shopspring/decimal"

// Prices and fees are carried as int64 base units (the smallest
// currency/token denomination). Display conversion happens only at the
// reporting edge.

// FormatBaseUnits renders an amount of base units as a decimal string
// with the given number of fractional digits, e.g. 1234 with 2 digits
// renders as "12.34".
func FormatBaseUnits(amount int64, digits int32) string {
	return decimal.New(amount, -digits).StringFixed(digits)
}
