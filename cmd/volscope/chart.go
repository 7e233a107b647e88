package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volScope/internal/chart"
	"volScope/internal/config"
	"volScope/internal/model"
	"volScope/internal/numeric"
	"volScope/internal/subgraph"
)

func runChart(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadChart(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newRunLogger(cfg.LogLevel, "chart")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.close()

	responseCache, err := newResponseCache(ctx, cfg.Common, logger, &cleanup)
	if err != nil {
		return err
	}
	client := newSubgraphClient(cfg.SubgraphURL, cfg.Common, responseCache, logger)
	sink, err := newSink(ctx, cfg.Common, &cleanup)
	if err != nil {
		return err
	}

	since := cfg.Since
	if since == 0 {
		since = subgraph.ChartStartTime
	}
	address := cfg.Pool
	if address == "" {
		address = cfg.Token
	}

	logger.Info("chart start",
		zap.String("subgraph", cfg.SubgraphURL),
		zap.String("pool", cfg.Pool),
		zap.String("token", cfg.Token),
		zap.Int64("since", since),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	now := time.Now()
	var days []model.DailyChartEntry
	if cfg.Pool != "" {
		rows, err := client.PoolDayData(ctx, cfg.Pool, since)
		if err != nil {
			return err
		}
		days = chart.FillDays(chart.FormatPoolDays(rows), now)
		if err := logPoolSeries(ctx, client, cfg.Pool, days, logger); err != nil {
			return err
		}
	} else {
		rows, err := client.TokenDayData(ctx, cfg.Token, since)
		if err != nil {
			return err
		}
		days = chart.FillDays(chart.FormatTokenDays(rows), now)
	}

	if err := sink.PutChartDays(ctx, address, days); err != nil {
		return err
	}

	logger.Info("chart complete", zap.Int("days", len(days)))
	return nil
}

// logPoolSeries reports the realized and latest fee-implied volatility of a pool chart.
func logPoolSeries(ctx context.Context, client *subgraph.Client, pool string, days []model.DailyChartEntry, logger *zap.Logger) error {
	pools, err := client.Pools(ctx, []string{pool}, 0)
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		return fmt.Errorf("pool not found: %s", pool)
	}
	decimals0 := numeric.Int(pools[0].Token0.Decimals, 0)
	decimals1 := numeric.Int(pools[0].Token1.Decimals, 0)

	realized, window := chart.RealizedVolatility(chart.PriceSeries(days, decimals0, decimals1))
	fields := []zap.Field{
		zap.Float64("realized_volatility", realized),
		zap.Int("realized_window_days", window),
	}
	if implied := chart.VolatilitySeries(days, decimals0, decimals1); len(implied) > 0 {
		fields = append(fields, zap.Float64("fee_volatility", implied[len(implied)-1].Value))
	}
	logger.Info("pool series", fields...)
	return nil
}
