package services

import (
	"math"

	"pricetracker-service/models"
)

// The price snapshot resolver. price_history is append-only and price_id is
// monotonically increasing, so the record with the greatest price_id is the
// product's current price. These are pure functions over a slice of records;
// they never touch storage.

// CurrentOf returns the latest price record in records, or nil when the slice
// is empty. Records may belong to mixed products; callers filtering to one
// product get that product's current price.
func CurrentOf(records []models.PriceHistory) *models.PriceHistory {
	var current *models.PriceHistory
	for i := range records {
		if current == nil || records[i].PriceID > current.PriceID {
			current = &records[i]
		}
	}
	return current
}

// LatestPerProduct resolves the current-price snapshot: one record per
// product, the one with the greatest price_id.
func LatestPerProduct(records []models.PriceHistory) map[int64]models.PriceHistory {
	snapshot := make(map[int64]models.PriceHistory)
	for _, rec := range records {
		latest, ok := snapshot[rec.ProductID]
		if !ok || rec.PriceID > latest.PriceID {
			snapshot[rec.ProductID] = rec
		}
	}
	return snapshot
}

// IsDeal reports whether a price record qualifies as a deal: the original
// price must be strictly greater than the current price. A zero/absent
// original price means there is no discount baseline.
func IsDeal(rec models.PriceHistory) bool {
	return rec.OriginalPrice > rec.Price
}

// DiscountRatio returns (original - price) / original, the fraction saved off
// the original price. 0 when there is no usable baseline.
func DiscountRatio(rec models.PriceHistory) float64 {
	if rec.OriginalPrice <= 0 {
		return 0
	}
	return (rec.OriginalPrice - rec.Price) / rec.OriginalPrice
}

// DiscountPercent returns the rounded discount percentage for a current price
// record, 0 for nil records or records that are not discounted.
func DiscountPercent(rec *models.PriceHistory) int {
	if rec == nil || rec.OriginalPrice <= 0 || rec.OriginalPrice <= rec.Price {
		return 0
	}
	return int(math.Round(DiscountRatio(*rec) * 100))
}
