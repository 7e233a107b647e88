package analytics

import "volScope/internal/numeric"

// PercentChange returns (value - base) / base * 100, or 0 when base is zero.
func PercentChange(value, base float64) float64 {
	return numeric.Div((value-base)*100, base, 0)
}

// TwoDayChange pairs the current value with the percent change between the
// 24h and 48h priors. Missing priors yield a zero change.
func TwoDayChange(current float64, oneDay, twoDay numeric.Value) (float64, float64) {
	if !oneDay.OK || !twoDay.OK {
		return current, 0
	}
	return current, PercentChange(oneDay.Float, twoDay.Float)
}
