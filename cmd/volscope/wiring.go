package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volScope/internal/cache"
	"volScope/internal/chain"
	"volScope/internal/config"
	"volScope/internal/loader"
	"volScope/internal/storage"
	"volScope/internal/storage/postgres"
	"volScope/internal/subgraph"
)

// closers runs cleanup funcs in reverse order.
type closers []func()

func (c *closers) add(fn func()) {
	*c = append(*c, fn)
}

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func newRunLogger(level, command string) (*zap.Logger, error) {
	logger, err := newLogger(level)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("command", command), zap.String("run_id", uuid.NewString())), nil
}

func newResponseCache(ctx context.Context, cfg config.Common, logger *zap.Logger, cleanup *closers) (subgraph.Cache, error) {
	switch {
	case cfg.RedisAddr != "":
		redisCache := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		cleanup.add(func() { _ = redisCache.Close() })
		if err := redisCache.Ping(ctx); err != nil {
			return nil, err
		}
		logger.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		return redisCache, nil
	case cfg.MemoryCache:
		memoryCache, err := cache.NewMemoryCache(ctx, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { _ = memoryCache.Close() })
		return memoryCache, nil
	default:
		return nil, nil
	}
}

func newSubgraphClient(endpoint string, cfg config.Common, responseCache subgraph.Cache, logger *zap.Logger) *subgraph.Client {
	return subgraph.NewClient(endpoint, subgraph.Options{
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBackoff,
		Cache:          responseCache,
		Logger:         logger,
	})
}

// newBlockResolver prefers the RPC when one is configured.
func newBlockResolver(ctx context.Context, cfg config.PoolsConfig, responseCache subgraph.Cache, logger *zap.Logger, cleanup *closers) (loader.BlockResolver, error) {
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("connect rpc: %w", err)
		}
		cleanup.add(chainClient.Close)
		return chainClient, nil
	}
	if cfg.BlocksSubgraphURL == "" {
		return nil, fmt.Errorf("blocks subgraph url or rpc url is required")
	}
	return newSubgraphClient(cfg.BlocksSubgraphURL, cfg.Common, responseCache, logger), nil
}

func newLoader(ctx context.Context, cfg config.PoolsConfig, logger *zap.Logger, cleanup *closers) (*loader.Loader, error) {
	responseCache, err := newResponseCache(ctx, cfg.Common, logger, cleanup)
	if err != nil {
		return nil, err
	}
	blocks, err := newBlockResolver(ctx, cfg, responseCache, logger, cleanup)
	if err != nil {
		return nil, err
	}

	var at time.Time
	if cfg.At > 0 {
		at = time.Unix(cfg.At, 0)
	}

	source := newSubgraphClient(cfg.SubgraphURL, cfg.Common, responseCache, logger)
	return loader.New(source, blocks, loader.Config{
		HistoryDays: cfg.HistoryDays,
		Concurrency: cfg.Concurrency,
		At:          at,
	}, logger), nil
}

func newSink(ctx context.Context, cfg config.Common, cleanup *closers) (storage.Sink, error) {
	sinks := storage.Multi{}
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanup.add(store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
	}
	return sinks, nil
}
