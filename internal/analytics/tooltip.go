package analytics

import (
	"volScope/internal/model"
	"volScope/internal/numeric"
)

// tickReturnWindow scales the LP return of a tick to a 5% price band.
const tickReturnWindow = 0.05

// TickPoint is one bar of the liquidity density chart.
type TickPoint struct {
	Price0    float64 `json:"price0"`
	Price1    float64 `json:"price1"`
	TvlToken0 float64 `json:"tvl_token0"`
	TvlToken1 float64 `json:"tvl_token1"`
}

// TickStats is the tooltip payload for a hovered tick.
type TickStats struct {
	Price0         float64 `json:"price0"`
	Price1         float64 `json:"price1"`
	ValueLockedETH float64 `json:"value_locked_eth"`
	// LPReturn is the fee return per square-root day of liquidity at this tick, in percent.
	LPReturn  float64 `json:"lp_return"`
	HoldRatio float64 `json:"hold_ratio"`
	Delta     Delta   `json:"delta"`
}

// TickTooltip computes the hover stats of point for pool, with currentPrice as the spot.
func TickTooltip(pool model.DerivedPoolMetrics, point TickPoint, currentPrice float64) TickStats {
	fee := float64(pool.FeeTier)
	d0, d1 := pool.Token0.DerivedETH, pool.Token1.DerivedETH

	volumeToTvl := numeric.Div(fee*pool.VolumeUSD, pool.TvlUSD*feeTierScale, 0)
	tvlTick := (point.TvlToken0*d0 + point.TvlToken1*d1) / 2
	lockedETH := d0*pool.TvlToken0 + d1*pool.TvlToken1

	lpReturn := numeric.Div(
		volumeToTvl*lockedETH*fee*volLiqScale*100,
		volLiqTickRange*volLiqWindow*tvlTick*tickReturnWindow,
		0,
	)
	holdRatio := numeric.Div(pool.VolumeUSD, numeric.Div(tvlTick*pool.TvlUSD, lockedETH, 0), 0)

	return TickStats{
		Price0:         point.Price0,
		Price1:         point.Price1,
		ValueLockedETH: tvlTick,
		LPReturn:       lpReturn,
		HoldRatio:      holdRatio,
		Delta:          ApproxDelta(currentPrice, point.Price1, pool.Volatility),
	}
}
