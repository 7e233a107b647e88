// Package analytics derives the pool-level numbers shown by the dashboard from raw subgraph snapshots.
//
// The volatility figures here are heuristics: fee revenue measured against the liquidity
// concentrated in the active tick stands in for realized price variance. They are not
// option-implied volatilities.
package analytics

import (
	"math"

	"volScope/internal/model"
	"volScope/internal/numeric"
)

const (
	// feeTierScale converts a fee tier in hundredths of a bip into a fraction of volume.
	feeTierScale = 1_000_000
	// tickBase is the price ratio between adjacent ticks.
	tickBase = 1.0001

	// Empirical calibration of the fee-to-tick-liquidity ratio. Keep verbatim.
	volLiqScale     = 1.5957
	volLiqTickRange = 20001
	volLiqWindow    = 50
)

// PoolInput is everything needed to derive one pool's metrics.
type PoolInput struct {
	Snapshots model.SnapshotSet
	// EthPriceUSD is the current ETH/USD reference price.
	EthPriceUSD float64
	// EthPriceUSD24h prices the 24h-ago snapshot. Zero means EthPriceUSD is reused.
	EthPriceUSD24h float64
	// History holds formatted daily entries in ascending date order, used for the IV rank.
	History []model.DailyChartEntry
}

// DerivePool computes the metrics of a pool. ok is false when the current snapshot is missing.
func DerivePool(address string, in PoolInput) (model.DerivedPoolMetrics, bool) {
	cur := in.Snapshots.Current
	if cur == nil {
		return model.DerivedPoolMetrics{}, false
	}
	oneDay, twoDay, week := in.Snapshots.OneDay, in.Snapshots.TwoDay, in.Snapshots.Week

	volumeUSD := dailyVolumeUSD(cur)
	_, volumeUSDChange := TwoDayChange(
		numeric.Float(cur.VolumeUSD, 0),
		field(oneDay, func(s *model.RawPoolSnapshot) string { return s.VolumeUSD }),
		field(twoDay, func(s *model.RawPoolSnapshot) string { return s.VolumeUSD }),
	)
	_, feesUSDChange := TwoDayChange(
		numeric.Float(cur.FeesUSD, 0),
		field(oneDay, func(s *model.RawPoolSnapshot) string { return s.FeesUSD }),
		field(twoDay, func(s *model.RawPoolSnapshot) string { return s.FeesUSD }),
	)

	volumeUSDWeek := numeric.Float(cur.VolumeUSD, 0)
	if week != nil {
		volumeUSDWeek -= numeric.Float(week.VolumeUSD, 0)
	}

	feeTier := numeric.Int(cur.FeeTier, 0)
	fee := float64(feeTier)
	feesUSD := fee * volumeUSD / feeTierScale

	tvlToken0, tvlToken1 := lockedTokens(cur)
	tvlUSD := lockedUSD(cur, in.EthPriceUSD)

	tvlUSDChange := 0.0
	if oneDay != nil {
		ethPrice24h := in.EthPriceUSD24h
		if ethPrice24h == 0 {
			ethPrice24h = in.EthPriceUSD
		}
		prior := lockedUSD(oneDay, ethPrice24h)
		denominator := prior
		if denominator == 0 {
			denominator = 1
		}
		tvlUSDChange = numeric.Div((tvlUSD-prior)*100, denominator, 0)
	}

	decimals0 := numeric.Int(cur.Token0.Decimals, 0)
	decimals1 := numeric.Int(cur.Token1.Decimals, 0)
	derivedETH0 := numeric.Float(cur.Token0.DerivedETH, 0)
	derivedETH1 := numeric.Float(cur.Token1.DerivedETH, 0)
	tick := numeric.Float(cur.Tick, 0)
	liquidity := numeric.Float(cur.Liquidity, 0)

	tvl0ETH := tvlToken0 * derivedETH0
	tvl1ETH := tvlToken1 * derivedETH1
	lockedETH := tvl0ETH + tvl1ETH

	tvlTickToken0, tvlTickToken1 := tickLiquidity(liquidity, fee, tick, derivedETH0, derivedETH1, decimals0, decimals1)
	tvlTickAvg := (tvlTickToken0 + tvlTickToken1) / 2

	volumeToTvl := numeric.Div(fee*volumeUSD, tvlUSD*feeTierScale, 0)
	volLiq := numeric.Div(volumeToTvl*lockedETH*fee*volLiqScale, volLiqTickRange*volLiqWindow*tvlTickAvg, 0)
	totalLockedTick := numeric.Div(tvlTickAvg*tvlUSD, lockedETH, 0)
	volatility := numeric.Div(2*fee*numeric.Sqrt(volumeUSD), feeTierScale*numeric.Sqrt(totalLockedTick), 0)

	return model.DerivedPoolMetrics{
		Address:   address,
		FeeTier:   feeTier,
		Liquidity: liquidity,
		SqrtPrice: numeric.Float(cur.SqrtPrice, 0),
		Tick:      tick,
		Token0:    tokenInfo(cur.Token0),
		Token1:    tokenInfo(cur.Token1),

		Token0Price: numeric.Float(cur.Token0Price, 0),
		Token1Price: numeric.Float(cur.Token1Price, 0),

		VolumeUSD:       volumeUSD,
		VolumeUSDChange: volumeUSDChange,
		VolumeUSDWeek:   volumeUSDWeek,
		FeesUSD:         feesUSD,
		FeesUSDChange:   feesUSDChange,
		TvlUSD:          tvlUSD,
		TvlUSDChange:    tvlUSDChange,
		TvlToken0:       tvlToken0,
		TvlToken1:       tvlToken1,

		TvlTickToken0:   tvlTickToken0,
		TvlTickToken1:   tvlTickToken1,
		TvlTickAvg:      tvlTickAvg,
		TotalLockedTick: totalLockedTick,
		EthPrice:        numeric.Div(tvlUSD, lockedETH, 0),

		VolumeToTvl: volumeToTvl,
		VolLiq:      volLiq,
		Volatility:  volatility,
		IVRank:      IVRank(in.History),
	}, true
}

// DerivePools derives every address that has a current snapshot.
func DerivePools(addresses []string, inputs map[string]PoolInput) map[string]model.DerivedPoolMetrics {
	out := make(map[string]model.DerivedPoolMetrics, len(addresses))
	for _, address := range addresses {
		in, ok := inputs[address]
		if !ok {
			continue
		}
		if metrics, ok := DerivePool(address, in); ok {
			out[address] = metrics
		}
	}
	return out
}

// dailyVolumeUSD is the last complete day's volume: poolDayData is newest first,
// so index 1 is yesterday when today's bucket already exists.
func dailyVolumeUSD(s *model.RawPoolSnapshot) float64 {
	switch {
	case len(s.PoolDayData) > 1:
		return numeric.Float(s.PoolDayData[1].VolumeUSD, 0)
	case len(s.PoolDayData) == 1:
		return numeric.Float(s.PoolDayData[0].VolumeUSD, 0)
	default:
		return 0
	}
}

// lockedTokens subtracts half a day's accrued fees from the locked balances; the
// subgraph counts uncollected fees as liquidity.
func lockedTokens(s *model.RawPoolSnapshot) (float64, float64) {
	feeFraction := numeric.Float(s.FeeTier, 0) / 10_000 / 100
	tvl0 := numeric.Float(s.TotalValueLockedToken0, 0) - numeric.Float(s.VolumeToken0, 0)*feeFraction/2
	tvl1 := numeric.Float(s.TotalValueLockedToken1, 0) - numeric.Float(s.VolumeToken1, 0)*feeFraction/2
	return tvl0, tvl1
}

// lockedUSD prices the corrected balances through derivedETH, falling back to the
// reported USD value when that is not computable.
func lockedUSD(s *model.RawPoolSnapshot, ethPriceUSD float64) float64 {
	tvl0, tvl1 := lockedTokens(s)
	computed := tvl0*numeric.Float(s.Token0.DerivedETH, 0)*ethPriceUSD +
		tvl1*numeric.Float(s.Token1.DerivedETH, 0)*ethPriceUSD
	if computed > 0 && !math.IsInf(computed, 0) {
		return computed
	}
	return numeric.Float(s.TotalValueLockedUSD, 0)
}

// tickLiquidity estimates the ETH value concentrated at the active tick on each side,
// using price = 1.0001^tick.
func tickLiquidity(liquidity, fee, tick, derivedETH0, derivedETH1 float64, decimals0, decimals1 int) (float64, float64) {
	sqrtPrice := math.Pow(tickBase, tick/2)
	token0 := numeric.Div((liquidity+1)*fee*derivedETH0, sqrtPrice*math.Pow10(decimals0+6), 0)
	token1 := numeric.Div((liquidity+1)*fee*derivedETH1*sqrtPrice, math.Pow10(decimals1+6), 0)
	return token0, token1
}

func tokenInfo(t model.RawToken) model.TokenInfo {
	return model.TokenInfo{
		Address:    t.ID,
		Name:       TokenName(t.ID, t.Name),
		Symbol:     TokenSymbol(t.ID, t.Symbol),
		Decimals:   numeric.Int(t.Decimals, 0),
		DerivedETH: numeric.Float(t.DerivedETH, 0),
	}
}

func field(s *model.RawPoolSnapshot, get func(*model.RawPoolSnapshot) string) numeric.Value {
	if s == nil {
		return numeric.Value{}
	}
	return numeric.Parse(get(s))
}
