package model

import "math"

// SecondsPerDay is the length of one chart bucket.
const SecondsPerDay = 24 * 60 * 60

// DailyChartEntry is one calendar day of a pool or token chart.
type DailyChartEntry struct {
	Date                 int64   `json:"date"`
	VolumeUSD            float64 `json:"volume_usd"`
	VolumeToken0         float64 `json:"volume_token0"`
	VolumeToken1         float64 `json:"volume_token1"`
	FeeGrowthGlobal0X128 float64 `json:"fee_growth_global0_x128"`
	FeeGrowthGlobal1X128 float64 `json:"fee_growth_global1_x128"`
	TotalValueLockedUSD  float64 `json:"tvl_usd"`
	FeesUSD              float64 `json:"fees_usd"`
	Tick                 float64 `json:"tick"`
	TxCount              float64 `json:"tx_count"`
	Liquidity            float64 `json:"liquidity"`
	Token0Price          float64 `json:"token0_price"`
	Token1Price          float64 `json:"token1_price"`
}

// DayIndex returns the number of days since the unix epoch, rounded to the nearest day.
func (e DailyChartEntry) DayIndex() int64 {
	return DayIndex(e.Date)
}

// DayIndex maps a unix timestamp onto its nearest day index.
func DayIndex(ts int64) int64 {
	return int64(math.Round(float64(ts) / SecondsPerDay))
}
