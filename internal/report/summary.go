package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/barkmint/market/internal/events"
)

// ActivitySummary aggregates one day of marketplace activity.
// Amounts are in base units.
type ActivitySummary struct {
	Date           time.Time `json:"date"`
	Mints          int       `json:"mints"`
	Burns          int       `json:"burns"`
	Transfers      int       `json:"transfers"`
	Listings       int       `json:"listings"`
	Sales          int       `json:"sales"`
	SaleVolume     int64     `json:"saleVolume"`
	SellerProceeds int64     `json:"sellerProceeds"`
	CreatorFees    int64     `json:"creatorFees"`
	PlatformFees   int64     `json:"platformFees"`
}

// Summarize folds a day's audit events into an ActivitySummary.
func Summarize(date time.Time, evs []events.Event) ActivitySummary {
	counts := lo.CountValuesBy(evs, func(ev events.Event) string { return ev.Operation })

	sales := lo.Filter(evs, func(ev events.Event, _ int) bool {
		return ev.Operation == events.OpPurchase
	})

	return ActivitySummary{
		Date:      date,
		Mints:     counts[events.OpMint] + counts[events.OpBatchMint],
		Burns:     counts[events.OpBurn],
		Transfers: counts[events.OpTransfer],
		Listings:  counts[events.OpListForSale],
		Sales:     len(sales),
		SaleVolume: lo.SumBy(sales, func(ev events.Event) int64 {
			return ev.Amounts["price"]
		}),
		SellerProceeds: lo.SumBy(sales, func(ev events.Event) int64 {
			return ev.Amounts["seller_proceeds"]
		}),
		CreatorFees: lo.SumBy(sales, func(ev events.Event) int64 {
			return ev.Amounts["creator_fee"]
		}),
		PlatformFees: lo.SumBy(sales, func(ev events.Event) int64 {
			return ev.Amounts["platform_fee"]
		}),
	}
}
