package analytics

import (
	"math"

	"volScope/internal/model"
)

// Fee tiers a pool can be created with, in hundredths of a bip.
var AllFeeTiers = []int{100, 500, 3000, 10000}

var stableSymbols = map[string]struct{}{
	"USDC": {},
	"DAI":  {},
	"RAI":  {},
	"USDT": {},
}

// PoolFilter is a set of named predicates over derived pool metrics. Disabled
// predicates always pass.
type PoolFilter struct {
	FeeTiers []int `mapstructure:"fee-tiers" json:"fee_tiers"`

	RemoveLowLiquidity bool    `mapstructure:"remove-low-liquidity" json:"remove_low_liquidity"`
	MinTotalLockedTick float64 `mapstructure:"min-total-locked-tick" json:"min_total_locked_tick"`
	RequireVolume      bool    `mapstructure:"require-volume" json:"require_volume"`

	OnlyETHPairs    bool `mapstructure:"only-eth-pairs" json:"only_eth_pairs"`
	OnlyStablePairs bool `mapstructure:"only-stable-pairs" json:"only_stable_pairs"`

	HighIV          bool    `mapstructure:"high-iv" json:"high_iv"`
	MinAnnualizedIV float64 `mapstructure:"min-annualized-iv" json:"min_annualized_iv"`

	HighIVRank bool    `mapstructure:"high-iv-rank" json:"high_iv_rank"`
	MinIVRank  float64 `mapstructure:"min-iv-rank" json:"min_iv_rank"`
}

// HomeFilter is the top-pools preset.
func HomeFilter() PoolFilter {
	return PoolFilter{
		FeeTiers:           append([]int(nil), AllFeeTiers...),
		RemoveLowLiquidity: true,
		MinTotalLockedTick: 1000,
		MinAnnualizedIV:    100,
		MinIVRank:          20,
	}
}

// OverviewFilter is the pools-overview preset; it also drops pools without volume.
func OverviewFilter() PoolFilter {
	f := HomeFilter()
	f.MinTotalLockedTick = 100
	f.RequireVolume = true
	return f
}

// NoFilter passes every pool.
func NoFilter() PoolFilter {
	return PoolFilter{FeeTiers: append([]int(nil), AllFeeTiers...)}
}

// Preset resolves a preset name. Unknown names return false.
func Preset(name string) (PoolFilter, bool) {
	switch name {
	case "home":
		return HomeFilter(), true
	case "overview":
		return OverviewFilter(), true
	case "none", "":
		return NoFilter(), true
	default:
		return PoolFilter{}, false
	}
}

// Match reports whether pool passes every enabled predicate.
func (f PoolFilter) Match(pool model.DerivedPoolMetrics) bool {
	if !f.feeTierAllowed(pool.FeeTier) {
		return false
	}
	if f.RemoveLowLiquidity {
		if pool.TotalLockedTick <= f.MinTotalLockedTick {
			return false
		}
		if f.RequireVolume && pool.VolumeUSD <= 0 {
			return false
		}
	}
	if f.OnlyETHPairs && pool.Token0.Symbol != "ETH" && pool.Token1.Symbol != "ETH" {
		return false
	}
	if f.OnlyStablePairs && !isStable(pool.Token0.Symbol) && !isStable(pool.Token1.Symbol) {
		return false
	}
	if f.HighIV && AnnualizedIV(pool.Volatility) < f.MinAnnualizedIV {
		return false
	}
	if f.HighIVRank && pool.IVRank < f.MinIVRank {
		return false
	}
	return true
}

// Apply returns the pools that match, preserving order.
func (f PoolFilter) Apply(pools []model.DerivedPoolMetrics) []model.DerivedPoolMetrics {
	out := make([]model.DerivedPoolMetrics, 0, len(pools))
	for _, pool := range pools {
		if f.Match(pool) {
			out = append(out, pool)
		}
	}
	return out
}

// AnnualizedIV scales a daily volatility proxy to a yearly percentage.
func AnnualizedIV(volatility float64) float64 {
	return volatility * math.Sqrt(365) * 100
}

func (f PoolFilter) feeTierAllowed(tier int) bool {
	for _, allowed := range f.FeeTiers {
		if allowed == tier {
			return true
		}
	}
	return false
}

func isStable(symbol string) bool {
	_, ok := stableSymbols[symbol]
	return ok
}
