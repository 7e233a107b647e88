// Package loader gathers every subgraph read a derivation needs and only derives once all
// of them have completed without error.
package loader

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"volScope/internal/analytics"
	"volScope/internal/chart"
	"volScope/internal/model"
	"volScope/internal/numeric"
)

const (
	defaultHistoryDays = 95
	defaultConcurrency = 8
)

// Source is the subgraph reader. *subgraph.Client satisfies it.
type Source interface {
	Pools(ctx context.Context, addresses []string, block int64) ([]model.RawPoolSnapshot, error)
	EthPriceUSD(ctx context.Context, block int64) (numeric.Value, error)
	PoolDayData(ctx context.Context, address string, startTime int64) ([]model.RawPoolDayData, error)
}

// BlockResolver maps unix timestamps onto block numbers, aligned with the input.
// *subgraph.Client on a blocks subgraph and *chain.Client both satisfy it.
type BlockResolver interface {
	BlocksAtTimestamps(ctx context.Context, timestamps []int64) ([]int64, error)
}

// Config tunes a Loader.
type Config struct {
	// HistoryDays is how many trailing days of poolDayData feed the IV rank.
	HistoryDays int
	// Concurrency bounds the number of in-flight subgraph reads.
	Concurrency int
	// At pins the evaluation to a past time. The zero value reads the chain head.
	At          time.Time
	Now         func() time.Time
}

// Blocks are the resolved historical offsets. Current is 0 when reading at the chain head.
type Blocks struct {
	Current int64 `json:"current"`
	OneDay  int64 `json:"one_day"`
	TwoDay  int64 `json:"two_day"`
	Week    int64 `json:"week"`
}

// Result is a completed load.
type Result struct {
	// At is the evaluation time the offsets were taken from.
	At      time.Time
	Blocks  Blocks
	Inputs  map[string]analytics.PoolInput
	Metrics map[string]model.DerivedPoolMetrics
}

// Loader fans out the reads for a set of pools.
type Loader struct {
	source Source
	blocks BlockResolver
	cfg    Config
	logger *zap.Logger
}

// New creates a loader.
func New(source Source, blocks BlockResolver, cfg Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = defaultHistoryDays
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loader{source: source, blocks: blocks, cfg: cfg, logger: logger}
}

// Load reads the snapshots, ETH prices and histories of addresses and derives their metrics.
// Any failed read fails the whole load; partial inputs are never derived.
func (l *Loader) Load(ctx context.Context, addresses []string) (Result, error) {
	addresses = lowercase(addresses)
	pinned := !l.cfg.At.IsZero()
	now := l.cfg.Now().UTC()
	if pinned {
		now = l.cfg.At.UTC()
	}
	unix := now.Unix()

	timestamps := []int64{
		unix - model.SecondsPerDay,
		unix - 2*model.SecondsPerDay,
		unix - 7*model.SecondsPerDay,
	}
	if pinned {
		timestamps = append(timestamps, unix)
	}
	resolved, err := l.blocks.BlocksAtTimestamps(ctx, timestamps)
	if err != nil {
		return Result{}, fmt.Errorf("resolve blocks: %w", err)
	}
	if len(resolved) != len(timestamps) {
		return Result{}, fmt.Errorf("resolve blocks: expected %d blocks, got %d", len(timestamps), len(resolved))
	}
	blocks := Blocks{OneDay: resolved[0], TwoDay: resolved[1], Week: resolved[2]}
	if pinned {
		blocks.Current = resolved[3]
	}
	l.logger.Info("blocks resolved",
		zap.Time("at", now),
		zap.Int64("current", blocks.Current),
		zap.Int64("one_day", blocks.OneDay),
		zap.Int64("two_day", blocks.TwoDay),
		zap.Int64("week", blocks.Week),
	)

	var (
		current, oneDay, twoDay, week []model.RawPoolSnapshot
		ethNow, eth24h                numeric.Value
		mu                            sync.Mutex
		histories                     = make(map[string][]model.DailyChartEntry, len(addresses))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Concurrency)

	snapshot := func(dst *[]model.RawPoolSnapshot, block int64) func() error {
		return func() error {
			pools, err := l.source.Pools(gctx, addresses, block)
			if err != nil {
				return err
			}
			*dst = pools
			return nil
		}
	}
	price := func(dst *numeric.Value, block int64) func() error {
		return func() error {
			value, err := l.source.EthPriceUSD(gctx, block)
			if err != nil {
				return err
			}
			*dst = value
			return nil
		}
	}

	g.Go(snapshot(&current, blocks.Current))
	g.Go(snapshot(&oneDay, blocks.OneDay))
	g.Go(snapshot(&twoDay, blocks.TwoDay))
	g.Go(snapshot(&week, blocks.Week))
	g.Go(price(&ethNow, blocks.Current))
	g.Go(price(&eth24h, blocks.OneDay))

	start := unix - int64(l.cfg.HistoryDays+1)*model.SecondsPerDay
	for _, address := range addresses {
		address := address
		g.Go(func() error {
			rows, err := l.source.PoolDayData(gctx, address, start)
			if err != nil {
				return err
			}
			days := chart.FillDays(chart.FormatPoolDays(observedBy(rows, unix)), now)
			mu.Lock()
			histories[address] = days
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("load pools: %w", err)
	}

	inputs := assemble(addresses, current, oneDay, twoDay, week, histories)
	for address, in := range inputs {
		in.EthPriceUSD = ethNow.Or(0)
		in.EthPriceUSD24h = eth24h.Or(0)
		inputs[address] = in
	}
	if !ethNow.OK {
		l.logger.Warn("eth price missing, usd tvl falls back to reported values")
	}

	metrics := analytics.DerivePools(addresses, inputs)
	l.logger.Info("pools derived", zap.Int("requested", len(addresses)), zap.Int("derived", len(metrics)))
	return Result{At: now, Blocks: blocks, Inputs: inputs, Metrics: metrics}, nil
}

// observedBy drops day rows that start after unix.
func observedBy(rows []model.RawPoolDayData, unix int64) []model.RawPoolDayData {
	out := make([]model.RawPoolDayData, 0, len(rows))
	for _, row := range rows {
		if row.Date <= unix {
			out = append(out, row)
		}
	}
	return out
}

func lowercase(addresses []string) []string {
	out := make([]string, len(addresses))
	for i, address := range addresses {
		out[i] = strings.ToLower(address)
	}
	return out
}

func assemble(addresses []string, current, oneDay, twoDay, week []model.RawPoolSnapshot, histories map[string][]model.DailyChartEntry) map[string]analytics.PoolInput {
	byID := func(pools []model.RawPoolSnapshot) map[string]*model.RawPoolSnapshot {
		out := make(map[string]*model.RawPoolSnapshot, len(pools))
		for i := range pools {
			out[pools[i].ID] = &pools[i]
		}
		return out
	}
	cur, d1, d2, w := byID(current), byID(oneDay), byID(twoDay), byID(week)

	inputs := make(map[string]analytics.PoolInput, len(addresses))
	for _, address := range addresses {
		inputs[address] = analytics.PoolInput{
			Snapshots: model.SnapshotSet{
				Current: cur[address],
				OneDay:  d1[address],
				TwoDay:  d2[address],
				Week:    w[address],
			},
			History: histories[address],
		}
	}
	return inputs
}
