package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// TooltipConfig holds configuration for the tooltip command.
type TooltipConfig struct {
	PoolsConfig
	Price     float64
	TvlToken0 float64
	TvlToken1 float64
}

// LoadTooltip merges config file, environment variables, and flags into TooltipConfig.
func LoadTooltip(cfgFile string, flags *pflag.FlagSet) (TooltipConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"blocks-subgraph": "https://api.thegraph.com/subgraphs/name/blocklytics/ethereum-blocks",
		"history-days":    95,
		"concurrency":     8,
		"out":             "-",
		"filter.preset":   "none",
	})
	if err != nil {
		return TooltipConfig{}, err
	}
	return loadTooltip(v)
}

func loadTooltip(v *viper.Viper) (TooltipConfig, error) {
	pools, err := loadPools(v)
	if err != nil {
		return TooltipConfig{}, err
	}
	if len(pools.Pools) != 1 {
		return TooltipConfig{}, fmt.Errorf("tooltip takes exactly one pool, got %d", len(pools.Pools))
	}
	price := v.GetFloat64("price")
	if price <= 0 {
		return TooltipConfig{}, fmt.Errorf("price must be positive")
	}

	return TooltipConfig{
		PoolsConfig: pools,
		Price:       price,
		TvlToken0:   v.GetFloat64("tvl-token0"),
		TvlToken1:   v.GetFloat64("tvl-token1"),
	}, nil
}
