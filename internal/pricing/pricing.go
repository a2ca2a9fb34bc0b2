// Package pricing computes the effective per-day rate and total price for one
// rental line, applying the product's volume-discount tiers.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/rentflow/rental-platform/internal/models"
)

// Evaluate picks the tier with the greatest MinDays that is still <=
// rentalDays; when none qualifies the base daily rate applies. The returned
// total is the per-day rate times the rental length, before quantity
// multiplication. Evaluate is pure and performs no validation: callers clamp
// rentalDays below 1 to 1 before invoking.
func Evaluate(dailyRate decimal.Decimal, rentalDays int, tiers []models.PriceTier) models.PriceCalculation {
	pricePerDay := dailyRate
	discounted := false
	label := ""

	bestMinDays := 0

	for _, tier := range tiers {
		if tier.MinDays <= rentalDays && tier.MinDays > bestMinDays {
			bestMinDays = tier.MinDays
			pricePerDay = tier.PricePerDay
			discounted = true
			label = tier.Label
		}
	}

	return models.PriceCalculation{
		PricePerDay:  pricePerDay,
		TotalPrice:   pricePerDay.Mul(decimal.NewFromInt(int64(rentalDays))),
		IsDiscounted: discounted,
		TierLabel:    label,
	}
}

// ClampRentalDays normalizes a rental length for Evaluate.
func ClampRentalDays(days int) int {
	if days < 1 {
		return 1
	}

	return days
}
