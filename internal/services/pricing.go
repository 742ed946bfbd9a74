package services

import (
	"math"
	"time"
)

// Condition is the vision service's assessment of an item.
type Condition struct {
	ConditionScore     float64 `json:"condition_score"`
	DepreciationFactor float64 `json:"depreciation_factor"`
}

// Logistics pricing constants.
const (
	logisticsBaseFare     = 200.0 // covers the first 5 km
	logisticsBaseDistance = 5.0
	logisticsPerKmRate    = 45.0
	oversizedSurcharge    = 5.0 // per km
	heavyItemSurcharge    = 2.0 // per km when weight > 200 kg
)

// EstimateMonthlyRent suggests a monthly rental price from the invoice
// value, the item's age and an optional vision-assessed condition.
// The 3%-of-invoice floor guarantees a non-negative, non-trivial rent
// regardless of age or condition inputs.
func EstimateMonthlyRent(invoiceValue float64, purchaseDate time.Time, cond *Condition) float64 {
	ageMonths := AgeInMonths(purchaseDate, time.Now())

	// Base rent: 1/24th of invoice value, depreciated 0.5% per elapsed
	// month. Not clamped here; the floor below handles the negative case.
	baseRent := invoiceValue / 24
	rentAfterAge := baseRent - baseRent*0.005*float64(ageMonths)

	var rentAfterCondition float64
	if cond != nil {
		adjustment := 1 - cond.DepreciationFactor*(1-cond.ConditionScore)
		rentAfterCondition = rentAfterAge * adjustment
	} else {
		// Without an assessment, default to a flat 20% reduction.
		rentAfterCondition = rentAfterAge * 0.8
	}

	minRent := invoiceValue * 0.03
	return round2(math.Max(rentAfterCondition, minRent))
}

// AgeInMonths counts whole calendar months between the two dates.
// Day-of-month is ignored, so an item bought late last month already
// counts as one month old.
func AgeInMonths(purchaseDate, today time.Time) int {
	return (today.Year()-purchaseDate.Year())*12 + int(today.Month()) - int(purchaseDate.Month())
}

// EstimateLogisticsCost prices a delivery from distance, dimensions and
// weight. The base fare covers the first 5 km; oversized items (any
// side over 100cm length or 50cm width/height) and items over 200 kg
// raise the per-km rate beyond that.
func EstimateLogisticsCost(distanceKm, lengthCm, widthCm, heightCm, weightKg float64) float64 {
	perKm := logisticsPerKmRate
	if lengthCm > 100 || widthCm > 50 || heightCm > 50 {
		perKm += oversizedSurcharge
	}

	surcharge := 0.0
	if weightKg > 200 {
		surcharge = heavyItemSurcharge
	}

	extraDistance := math.Max(0, distanceKm-logisticsBaseDistance)
	return round2(logisticsBaseFare + extraDistance*(perKm+surcharge))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
