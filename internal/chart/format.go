package chart

import (
	"volScope/internal/model"
	"volScope/internal/numeric"
)

// FormatPoolDays parses poolDayData rows and indexes them by day. The stored TVL is
// reduced by the day's fees, volumeUSD * feeTier / 10000, which the subgraph counts as liquidity.
func FormatPoolDays(rows []model.RawPoolDayData) map[int64]model.DailyChartEntry {
	out := make(map[int64]model.DailyChartEntry, len(rows))
	for _, row := range rows {
		feePercent := numeric.Float(row.Pool.FeeTier, 0) / 10_000
		tvlAdjust := numeric.Float(row.VolumeUSD, 0) * feePercent

		out[model.DayIndex(row.Date)] = model.DailyChartEntry{
			Date:                 row.Date,
			VolumeUSD:            numeric.Float(row.VolumeUSD, 0),
			VolumeToken0:         numeric.Float(row.VolumeToken0, 0),
			VolumeToken1:         numeric.Float(row.VolumeToken1, 0),
			FeeGrowthGlobal0X128: numeric.Float(row.FeeGrowthGlobal0X128, 0),
			FeeGrowthGlobal1X128: numeric.Float(row.FeeGrowthGlobal1X128, 0),
			TotalValueLockedUSD:  numeric.Float(row.TvlUSD, 0) - tvlAdjust,
			FeesUSD:              numeric.Float(row.FeesUSD, 0),
			Tick:                 numeric.Float(row.Tick, 0),
			TxCount:              numeric.Float(row.TxCount, 0),
			Liquidity:            numeric.Float(row.Liquidity, 0),
			Token0Price:          numeric.Float(row.Token0Price, 0),
			Token1Price:          numeric.Float(row.Token1Price, 0),
		}
	}
	return out
}

// FormatTokenDays parses tokenDayData rows and indexes them by day.
func FormatTokenDays(rows []model.RawTokenDayData) map[int64]model.DailyChartEntry {
	out := make(map[int64]model.DailyChartEntry, len(rows))
	for _, row := range rows {
		out[model.DayIndex(row.Date)] = model.DailyChartEntry{
			Date:                row.Date,
			VolumeUSD:           numeric.Float(row.VolumeUSD, 0),
			TotalValueLockedUSD: numeric.Float(row.TotalValueLockedUSD, 0),
			FeesUSD:             numeric.Float(row.FeesUSD, 0),
		}
	}
	return out
}
