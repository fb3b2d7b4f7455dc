package core

import "github.com/shopspring/decimal"

// EcoRating is a six-level letter grade derived from a fixed CO2 threshold
// ladder. It is a gamified relative score, not a scientific emissions figure.
type EcoRating string

const (
	RatingAPlus EcoRating = "A+"
	RatingA     EcoRating = "A"
	RatingBPlus EcoRating = "B+"
	RatingB     EcoRating = "B"
	RatingCPlus EcoRating = "C+"
	RatingC     EcoRating = "C"
)

// EcoImpactScale is the persisted precision of eco-impact values.
const EcoImpactScale = 3

var (
	impactMultipliers = map[string]decimal.Decimal{
		"transport": decimal.RequireFromString("0.20"),
		"food":      decimal.RequireFromString("0.15"),
		"shopping":  decimal.RequireFromString("0.10"),
		"utilities": decimal.RequireFromString("0.25"),
	}
	defaultMultiplier = decimal.RequireFromString("0.05")

	co2Baseline = decimal.NewFromInt(500)
	oneHundred  = decimal.NewFromInt(100)

	// Upper bounds are exclusive: a total of exactly 50 rates "A", not "A+".
	ratingLadder = []struct {
		below  decimal.Decimal
		rating EcoRating
	}{
		{decimal.NewFromInt(50), RatingAPlus},
		{decimal.NewFromInt(100), RatingA},
		{decimal.NewFromInt(200), RatingBPlus},
		{decimal.NewFromInt(300), RatingB},
		{decimal.NewFromInt(500), RatingCPlus},
	}
)

// EstimateImpact maps a category and monetary amount to a CO2-equivalent
// weight. Pure and total: unknown categories (including all income
// categories) fall back to the default multiplier. The result is rounded
// to the persisted precision and frozen on the transaction at creation.
func EstimateImpact(category string, amount decimal.Decimal) decimal.Decimal {
	multiplier, ok := impactMultipliers[category]
	if !ok {
		multiplier = defaultMultiplier
	}
	return amount.Mul(multiplier).Round(EcoImpactScale)
}

// RateCO2 classifies a CO2 total on the fixed threshold ladder.
func RateCO2(totalCO2 decimal.Decimal) EcoRating {
	for _, step := range ratingLadder {
		if totalCO2.LessThan(step.below) {
			return step.rating
		}
	}
	return RatingC
}

// CO2ReductionPercent is how far the total sits below the 500 baseline,
// as a rounded percentage floored at 0. Since eco-impact is never negative
// the practical ceiling is 100, reached at a total of exactly 0.
func CO2ReductionPercent(totalCO2 decimal.Decimal) int {
	pct := co2Baseline.Sub(totalCO2).Div(co2Baseline).Mul(oneHundred).Round(0)
	n := int(pct.IntPart())
	if n < 0 {
		return 0
	}
	return n
}

// EcoRecommendations is static advice content: not personalized, always all
// five entries in this order regardless of rating.
func EcoRecommendations() []string {
	return []string{
		"Choose local produce to reduce your carbon footprint",
		"Use public transport or a bicycle",
		"Buy products with an eco certification label",
		"Cut meat consumption one or two days a week",
		"Choose digital receipts over paper ones",
	}
}
