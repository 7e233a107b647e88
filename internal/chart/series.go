package chart

import (
	"math"

	"volScope/internal/model"
	"volScope/internal/numeric"
)

const (
	// seriesWarmupDays drops the oldest days, which are partial for new pools.
	seriesWarmupDays = 2
	tickBase         = 1.0001
	tickStep         = 0.0001
	daysPerYear      = 365
	q128             = 340282366920938463463374607431768211456.0 // 2^128
)

// Point is one chart sample.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// FeeGrowthPoint is one fee-growth sample for both tokens.
type FeeGrowthPoint struct {
	Time     int64   `json:"time"`
	Value    float64 `json:"value"`
	ValueAlt float64 `json:"value_alt"`
}

// decimalFactor balances the price scale of tokens with different decimals.
func decimalFactor(decimals0, decimals1 int) float64 {
	return math.Pow(10, float64(decimals0)/4-float64(decimals1)/4)
}

// TvlSeries maps each day to its TVL.
func TvlSeries(days []model.DailyChartEntry) []Point {
	out := make([]Point, 0, len(days))
	for _, day := range days {
		out = append(out, Point{Time: day.Date, Value: day.TotalValueLockedUSD})
	}
	return out
}

// VolumeSeries maps each day to its USD volume.
func VolumeSeries(days []model.DailyChartEntry) []Point {
	out := make([]Point, 0, len(days))
	for _, day := range days {
		out = append(out, Point{Time: day.Date, Value: day.VolumeUSD})
	}
	return out
}

// PriceSeries converts each day's tick into a token price.
func PriceSeries(days []model.DailyChartEntry, decimals0, decimals1 int) []Point {
	days = warm(days)
	f := decimalFactor(decimals0, decimals1)
	scale := math.Pow(math.Max(1/f, f), 4)

	out := make([]Point, 0, len(days))
	for _, day := range days {
		out = append(out, Point{
			Time:  day.Date,
			Value: numeric.Finite(scale*math.Pow(tickBase, -day.Tick), 0),
		})
	}
	return out
}

// VolatilitySeries computes the annualized per-day volatility proxy
// 2*sqrt(365)*sqrt(feesUSD/volumeUSD * volumeToken0 * sqrt(token1Price) * 1e18 / liquidity).
func VolatilitySeries(days []model.DailyChartEntry, decimals0, decimals1 int) []Point {
	days = warm(days)
	f := decimalFactor(decimals0, decimals1)
	scale := math.Min(1/f, f) * 2 * math.Sqrt(daysPerYear)

	out := make([]Point, 0, len(days))
	for _, day := range days {
		feeRate := numeric.Div(day.FeesUSD, day.VolumeUSD, 0)
		variance := numeric.Div(feeRate*day.VolumeToken0*numeric.Sqrt(day.Token1Price)*1e18, day.Liquidity, 0)
		out = append(out, Point{Time: day.Date, Value: scale * numeric.Sqrt(variance)})
	}
	return out
}

// FeeGrowthSeries converts the Q128 fee growth accumulators into plain numbers.
func FeeGrowthSeries(days []model.DailyChartEntry) []FeeGrowthPoint {
	days = warm(days)
	out := make([]FeeGrowthPoint, 0, len(days))
	for _, day := range days {
		out = append(out, FeeGrowthPoint{
			Time:     day.Date,
			Value:    day.FeeGrowthGlobal1X128 / q128,
			ValueAlt: day.FeeGrowthGlobal0X128 / q128,
		})
	}
	return out
}

// RealizedVolatility annualizes the standard deviation of day-over-day log price moves over
// the last 28 days, or 7 when the series is shorter. window is 0 when there is too little data.
func RealizedVolatility(prices []Point) (vol float64, window int) {
	ticks := make([]float64, 0, len(prices))
	for _, p := range prices {
		ticks = append(ticks, numeric.Finite(math.Log(p.Value)/math.Log(tickBase), 0))
	}

	switch n := len(ticks); {
	case n > 28:
		window = 28
	case n > 7:
		window = 7
	default:
		return 0, 0
	}

	n := len(ticks)
	prev := ticks[n-window-1 : n-1]
	next := ticks[n-window:]
	diffs := make([]float64, window)
	for i := range diffs {
		diffs[i] = prev[i]*tickStep - next[i]*tickStep
	}
	return stdDev(diffs) * math.Sqrt(daysPerYear), window
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func warm(days []model.DailyChartEntry) []model.DailyChartEntry {
	if len(days) <= seriesWarmupDays {
		return nil
	}
	return days[seriesWarmupDays:]
}
