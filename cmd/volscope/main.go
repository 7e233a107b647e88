package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "volscope",
		Short:        "Uniswap V3 pool volatility and liquidity analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Derive metrics for a set of pools",
		RunE:  runPools,
	}
	addCommonFlags(poolsCmd, "./data/pools.jsonl")
	poolsCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	addLoaderFlags(poolsCmd)
	poolsCmd.Flags().String("filter.preset", "none", "pool filter preset (home, overview, none)")
	poolsCmd.Flags().StringSlice("filter.fee-tiers", nil, "allowed fee tiers (comma-separated)")
	poolsCmd.Flags().Bool("filter.remove-low-liquidity", false, "drop pools at or below filter.min-total-locked-tick")
	poolsCmd.Flags().Float64("filter.min-total-locked-tick", 0, "minimum liquidity at the current tick")
	poolsCmd.Flags().Bool("filter.require-volume", false, "drop pools without volume")
	poolsCmd.Flags().Bool("filter.only-eth-pairs", false, "keep only pools with an ETH leg")
	poolsCmd.Flags().Bool("filter.only-stable-pairs", false, "keep only pools with a stablecoin leg")
	poolsCmd.Flags().Bool("filter.high-iv", false, "keep only pools above filter.min-annualized-iv")
	poolsCmd.Flags().Float64("filter.min-annualized-iv", 0, "minimum annualized volatility in percent")
	poolsCmd.Flags().Bool("filter.high-iv-rank", false, "keep only pools above filter.min-iv-rank")
	poolsCmd.Flags().Float64("filter.min-iv-rank", 0, "minimum IV rank (0-100)")
	root.AddCommand(poolsCmd)

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Write the gap-filled daily chart of a pool or token",
		RunE:  runChart,
	}
	addCommonFlags(chartCmd, "./data/chart.jsonl")
	chartCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	chartCmd.Flags().String("pool", "", "pool address")
	chartCmd.Flags().String("token", "", "token address")
	chartCmd.Flags().String("since", "", "first day to read (unix seconds or RFC3339), default all")
	root.AddCommand(chartCmd)

	tooltipCmd := &cobra.Command{
		Use:   "tooltip",
		Short: "Print tick stats and option deltas of a pool at a strike price",
		RunE:  runTooltip,
	}
	addCommonFlags(tooltipCmd, "-")
	addLoaderFlags(tooltipCmd)
	tooltipCmd.Flags().Float64("price", 0, "strike price, token1 per token0")
	tooltipCmd.Flags().Float64("tvl-token0", 0, "token0 locked at the tick, default the current tick")
	tooltipCmd.Flags().Float64("tvl-token1", 0, "token1 locked at the tick, default the current tick")
	root.AddCommand(tooltipCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command, out string) {
	cmd.Flags().String("subgraph", "", "Uniswap V3 subgraph URL")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts per query")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("out", out, "output path, - for stdout")
	cmd.Flags().String("redis-addr", "", "optional Redis address for the response cache")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().Bool("memory-cache", false, "cache responses in process when Redis is not configured")
	cmd.Flags().Duration("cache-ttl", 5*time.Minute, "response cache TTL")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func addLoaderFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("pool", nil, "pool addresses (comma-separated)")
	cmd.Flags().String("blocks-subgraph", "", "blocks subgraph URL")
	cmd.Flags().String("rpc", "", "Ethereum RPC URL, resolves blocks instead of the blocks subgraph")
	cmd.Flags().Int("history-days", 95, "days of history used for the IV rank")
	cmd.Flags().Int("concurrency", 8, "maximum in-flight subgraph queries")
	cmd.Flags().String("at", "", "evaluate as of this time (unix seconds or RFC3339), default now")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
