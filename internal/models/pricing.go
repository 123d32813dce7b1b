// internal/models/pricing.go
package models

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPercentage returns round((old - price) / old * 100) when the old
// price is set and above the current one, otherwise 0. Halves round away
// from zero.
func DiscountPercentage(price decimal.Decimal, oldPrice decimal.NullDecimal) int64 {
	if !oldPrice.Valid || !oldPrice.Decimal.IsPositive() {
		return 0
	}
	if !oldPrice.Decimal.GreaterThan(price) {
		return 0
	}

	pct := oldPrice.Decimal.Sub(price).Mul(hundred).DivRound(oldPrice.Decimal, 0)
	return pct.IntPart()
}

// AverageRating is the mean of count ratings summing to sum, rounded to two
// places with halves away from zero. No ratings yields 0.00.
func AverageRating(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}
