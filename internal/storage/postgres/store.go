package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"volScope/internal/model"
)

// Schema creates the tables the store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS pool_metrics (
	pool_address      TEXT        NOT NULL,
	observed_at       TIMESTAMPTZ NOT NULL,
	fee_tier          INTEGER     NOT NULL,
	token0_symbol     TEXT        NOT NULL,
	token1_symbol     TEXT        NOT NULL,
	volume_usd        DOUBLE PRECISION NOT NULL,
	volume_usd_change DOUBLE PRECISION NOT NULL,
	volume_usd_week   DOUBLE PRECISION NOT NULL,
	fees_usd          DOUBLE PRECISION NOT NULL,
	fees_usd_change   DOUBLE PRECISION NOT NULL,
	tvl_usd           DOUBLE PRECISION NOT NULL,
	tvl_usd_change    DOUBLE PRECISION NOT NULL,
	total_locked_tick DOUBLE PRECISION NOT NULL,
	volume_to_tvl     DOUBLE PRECISION NOT NULL,
	vol_liq           DOUBLE PRECISION NOT NULL,
	volatility        DOUBLE PRECISION NOT NULL,
	iv_rank           DOUBLE PRECISION NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (pool_address, observed_at)
);
CREATE TABLE IF NOT EXISTS chart_days (
	address        TEXT   NOT NULL,
	day            BIGINT NOT NULL,
	volume_usd     DOUBLE PRECISION NOT NULL,
	tvl_usd        DOUBLE PRECISION NOT NULL,
	fees_usd       DOUBLE PRECISION NOT NULL,
	tick           DOUBLE PRECISION NOT NULL,
	liquidity      DOUBLE PRECISION NOT NULL,
	token0_price   DOUBLE PRECISION NOT NULL,
	token1_price   DOUBLE PRECISION NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (address, day)
);
`

// Store provides Postgres persistence for derived records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PutPoolMetrics inserts or updates one row per pool for observedAt.
func (s *Store) PutPoolMetrics(ctx context.Context, observedAt time.Time, metrics []model.DerivedPoolMetrics) error {
	if len(metrics) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(`
			INSERT INTO pool_metrics (
				pool_address, observed_at, fee_tier, token0_symbol, token1_symbol,
				volume_usd, volume_usd_change, volume_usd_week, fees_usd, fees_usd_change,
				tvl_usd, tvl_usd_change, total_locked_tick, volume_to_tvl, vol_liq, volatility, iv_rank, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now())
			ON CONFLICT (pool_address, observed_at)
			DO UPDATE SET
				fee_tier = EXCLUDED.fee_tier,
				token0_symbol = EXCLUDED.token0_symbol,
				token1_symbol = EXCLUDED.token1_symbol,
				volume_usd = EXCLUDED.volume_usd,
				volume_usd_change = EXCLUDED.volume_usd_change,
				volume_usd_week = EXCLUDED.volume_usd_week,
				fees_usd = EXCLUDED.fees_usd,
				fees_usd_change = EXCLUDED.fees_usd_change,
				tvl_usd = EXCLUDED.tvl_usd,
				tvl_usd_change = EXCLUDED.tvl_usd_change,
				total_locked_tick = EXCLUDED.total_locked_tick,
				volume_to_tvl = EXCLUDED.volume_to_tvl,
				vol_liq = EXCLUDED.vol_liq,
				volatility = EXCLUDED.volatility,
				iv_rank = EXCLUDED.iv_rank,
				updated_at = now()
		`,
			m.Address,
			observedAt.UTC(),
			m.FeeTier,
			m.Token0.Symbol,
			m.Token1.Symbol,
			m.VolumeUSD,
			m.VolumeUSDChange,
			m.VolumeUSDWeek,
			m.FeesUSD,
			m.FeesUSDChange,
			m.TvlUSD,
			m.TvlUSDChange,
			m.TotalLockedTick,
			m.VolumeToTvl,
			m.VolLiq,
			m.Volatility,
			m.IVRank,
		)
	}
	return s.exec(ctx, batch, len(metrics))
}

// PutChartDays inserts or updates chart days keyed by address and day index.
func (s *Store) PutChartDays(ctx context.Context, address string, days []model.DailyChartEntry) error {
	if len(days) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range days {
		batch.Queue(`
			INSERT INTO chart_days (
				address, day, volume_usd, tvl_usd, fees_usd, tick, liquidity, token0_price, token1_price, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
			ON CONFLICT (address, day)
			DO UPDATE SET
				volume_usd = EXCLUDED.volume_usd,
				tvl_usd = EXCLUDED.tvl_usd,
				fees_usd = EXCLUDED.fees_usd,
				tick = EXCLUDED.tick,
				liquidity = EXCLUDED.liquidity,
				token0_price = EXCLUDED.token0_price,
				token1_price = EXCLUDED.token1_price,
				updated_at = now()
		`,
			address,
			d.DayIndex(),
			d.VolumeUSD,
			d.TotalValueLockedUSD,
			d.FeesUSD,
			d.Tick,
			d.Liquidity,
			d.Token0Price,
			d.Token1Price,
		)
	}
	return s.exec(ctx, batch, len(days))
}

func (s *Store) exec(ctx context.Context, batch *pgx.Batch, n int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
