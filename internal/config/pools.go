package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"volScope/internal/analytics"
)

// PoolsConfig holds configuration for the pools command.
type PoolsConfig struct {
	Common
	BlocksSubgraphURL string
	RPCURL            string
	Pools             []string
	HistoryDays       int
	Concurrency       int
	At                int64
	Filter            analytics.PoolFilter
}

// LoadPools merges config file, environment variables, and flags into PoolsConfig.
func LoadPools(cfgFile string, flags *pflag.FlagSet) (PoolsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"blocks-subgraph": "https://api.thegraph.com/subgraphs/name/blocklytics/ethereum-blocks",
		"history-days":    95,
		"concurrency":     8,
		"out":             "./data/pools.jsonl",
		"filter.preset":   "none",
	})
	if err != nil {
		return PoolsConfig{}, err
	}
	return loadPools(v)
}

func loadPools(v *viper.Viper) (PoolsConfig, error) {
	common, err := loadCommon(v)
	if err != nil {
		return PoolsConfig{}, err
	}
	pools, err := ParseAddresses(getStringSlice(v, "pool"))
	if err != nil {
		return PoolsConfig{}, err
	}
	if len(pools) == 0 {
		return PoolsConfig{}, fmt.Errorf("at least one pool address is required")
	}
	at, err := ParseTimestamp(v.GetString("at"))
	if err != nil {
		return PoolsConfig{}, fmt.Errorf("parse at: %w", err)
	}
	filter, err := loadFilter(v)
	if err != nil {
		return PoolsConfig{}, err
	}

	return PoolsConfig{
		Common:            common,
		BlocksSubgraphURL: v.GetString("blocks-subgraph"),
		RPCURL:            v.GetString("rpc"),
		Pools:             pools,
		HistoryDays:       v.GetInt("history-days"),
		Concurrency:       v.GetInt("concurrency"),
		At:                at,
		Filter:            filter,
	}, nil
}

// loadFilter starts from the named preset and overrides every filter key that is set.
func loadFilter(v *viper.Viper) (analytics.PoolFilter, error) {
	preset := v.GetString("filter.preset")
	f, ok := analytics.Preset(preset)
	if !ok {
		return analytics.PoolFilter{}, fmt.Errorf("unknown filter preset: %s", preset)
	}

	if v.IsSet("filter.fee-tiers") {
		tiers, err := parseInts(getStringSlice(v, "filter.fee-tiers"))
		if err != nil {
			return analytics.PoolFilter{}, fmt.Errorf("parse filter.fee-tiers: %w", err)
		}
		f.FeeTiers = tiers
	}

	bools := map[string]*bool{
		"filter.remove-low-liquidity": &f.RemoveLowLiquidity,
		"filter.require-volume":       &f.RequireVolume,
		"filter.only-eth-pairs":       &f.OnlyETHPairs,
		"filter.only-stable-pairs":    &f.OnlyStablePairs,
		"filter.high-iv":              &f.HighIV,
		"filter.high-iv-rank":         &f.HighIVRank,
	}
	for key, dst := range bools {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	floats := map[string]*float64{
		"filter.min-total-locked-tick": &f.MinTotalLockedTick,
		"filter.min-annualized-iv":     &f.MinAnnualizedIV,
		"filter.min-iv-rank":           &f.MinIVRank,
	}
	for key, dst := range floats {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}

	return f, nil
}

func parseInts(items []string) ([]int, error) {
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
