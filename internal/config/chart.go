package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ChartConfig holds configuration for the chart command.
type ChartConfig struct {
	Common
	Pool  string
	Token string
	Since int64
}

// LoadChart merges config file, environment variables, and flags into ChartConfig.
func LoadChart(cfgFile string, flags *pflag.FlagSet) (ChartConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"out": "./data/chart.jsonl",
	})
	if err != nil {
		return ChartConfig{}, err
	}
	return loadChart(v)
}

func loadChart(v *viper.Viper) (ChartConfig, error) {
	common, err := loadCommon(v)
	if err != nil {
		return ChartConfig{}, err
	}

	pool, token := v.GetString("pool"), v.GetString("token")
	if (pool == "") == (token == "") {
		return ChartConfig{}, fmt.Errorf("exactly one of pool or token is required")
	}
	addresses, err := ParseAddresses([]string{pool, token})
	if err != nil {
		return ChartConfig{}, err
	}
	if pool != "" {
		pool = addresses[0]
	} else {
		token = addresses[0]
	}

	since, err := ParseTimestamp(v.GetString("since"))
	if err != nil {
		return ChartConfig{}, fmt.Errorf("parse since: %w", err)
	}

	return ChartConfig{Common: common, Pool: pool, Token: token, Since: since}, nil
}
