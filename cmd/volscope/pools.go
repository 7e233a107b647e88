package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volScope/internal/config"
	"volScope/internal/model"
)

func runPools(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPools(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cfg.LogLevel, "pools")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.close()

	l, err := newLoader(ctx, cfg, logger, &cleanup)
	if err != nil {
		return err
	}
	sink, err := newSink(ctx, cfg.Common, &cleanup)
	if err != nil {
		return err
	}

	logger.Info("pools start",
		zap.String("subgraph", cfg.SubgraphURL),
		zap.String("blocks_subgraph", cfg.BlocksSubgraphURL),
		zap.Bool("rpc", cfg.RPCURL != ""),
		zap.Int("pools", len(cfg.Pools)),
		zap.Int("history_days", cfg.HistoryDays),
		zap.Any("filter", cfg.Filter),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	result, err := l.Load(ctx, cfg.Pools)
	if err != nil {
		return err
	}

	kept := cfg.Filter.Apply(sortedMetrics(result.Metrics))
	if err := sink.PutPoolMetrics(ctx, result.At, kept); err != nil {
		return err
	}

	logger.Info("pools complete",
		zap.Int("derived", len(result.Metrics)),
		zap.Int("kept", len(kept)),
	)
	return nil
}

// sortedMetrics orders pools by TVL, largest first, as the pools query does.
func sortedMetrics(metrics map[string]model.DerivedPoolMetrics) []model.DerivedPoolMetrics {
	out := make([]model.DerivedPoolMetrics, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TvlUSD != out[j].TvlUSD {
			return out[i].TvlUSD > out[j].TvlUSD
		}
		return out[i].Address < out[j].Address
	})
	return out
}
