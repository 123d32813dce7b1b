package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func oldMoney(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(money(s))
}

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		price    decimal.Decimal
		oldPrice decimal.NullDecimal
		want     int64
	}{
		{"twenty percent off", money("80"), oldMoney("100"), 20},
		{"old price below price", money("100"), oldMoney("80"), 0},
		{"no old price", money("50"), decimal.NullDecimal{}, 0},
		{"equal prices", money("100"), oldMoney("100"), 0},
		{"zero old price", money("0"), oldMoney("0"), 0},
		{"half rounds up", money("97.50"), oldMoney("100"), 3},
		{"just below half", money("97.51"), oldMoney("100"), 2},
		{"free item", money("0"), oldMoney("250000"), 100},
		{"thirds", money("2000000"), oldMoney("3000000"), 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercentage(tt.price, tt.oldPrice))
		})
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name  string
		sum   int64
		count int64
		want  string
	}{
		{"no reviews", 0, 0, "0"},
		{"single review", 4, 1, "4"},
		{"exact mean", 9, 2, "4.5"},
		{"repeating decimal", 13, 3, "4.33"},
		{"repeating rounds up", 14, 3, "4.67"},
		{"half at third place rounds up", 17, 8, "2.13"},
		{"all fives", 25, 5, "5"},
		{"all ones", 3, 3, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageRating(tt.sum, tt.count)
			assert.True(t, got.Equal(money(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestProductAfterFindComputesDiscount(t *testing.T) {
	p := &Product{Price: money("80"), OldPrice: oldMoney("100")}
	assert.NoError(t, p.AfterFind(nil))
	assert.Equal(t, int64(20), p.DiscountPercentage)
}

func TestContactSubjectLabel(t *testing.T) {
	assert.Equal(t, "Complaint", ContactSubjectComplaint.Label())
	assert.Equal(t, "other", ContactSubject("other").Label())
}
