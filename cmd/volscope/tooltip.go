package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volScope/internal/analytics"
	"volScope/internal/config"
)

func runTooltip(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTooltip(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cfg.LogLevel, "tooltip")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.close()

	l, err := newLoader(ctx, cfg.PoolsConfig, logger, &cleanup)
	if err != nil {
		return err
	}

	address := cfg.Pools[0]
	logger.Info("tooltip start", zap.String("pool", address), zap.Float64("price", cfg.Price))

	result, err := l.Load(ctx, cfg.Pools)
	if err != nil {
		return err
	}
	pool, ok := result.Metrics[address]
	if !ok {
		return fmt.Errorf("pool not found: %s", address)
	}

	point := analytics.TickPoint{
		Price0:    1 / cfg.Price,
		Price1:    cfg.Price,
		TvlToken0: cfg.TvlToken0,
		TvlToken1: cfg.TvlToken1,
	}
	if point.TvlToken0 == 0 && point.TvlToken1 == 0 {
		point.TvlToken0, point.TvlToken1 = pool.TvlTickToken0, pool.TvlTickToken1
	}
	stats := analytics.TickTooltip(pool, point, pool.Token1Price)

	out := cmd.OutOrStdout()
	if cfg.Out != "" && cfg.Out != "-" {
		file, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(stats); err != nil {
		return fmt.Errorf("encode tooltip: %w", err)
	}

	logger.Info("tooltip complete", zap.Float64("call_delta", stats.Delta.Call), zap.Float64("put_percent", stats.Delta.PutPercent))
	return nil
}
