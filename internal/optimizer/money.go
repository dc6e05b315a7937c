package optimizer

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to two decimal places, half away
// from zero. Every finalized amount in the engine passes through here;
// intermediate sums are never carried with more precision across
// aggregation steps.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
