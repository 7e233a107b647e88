package storage

import (
	"context"
	"time"

	"volScope/internal/model"
)

// Sink receives derived records.
type Sink interface {
	PutPoolMetrics(ctx context.Context, observedAt time.Time, metrics []model.DerivedPoolMetrics) error
	PutChartDays(ctx context.Context, address string, days []model.DailyChartEntry) error
}

// PoolMetricsRecord is one derived pool line.
type PoolMetricsRecord struct {
	ObservedAt int64 `json:"observed_at"`
	model.DerivedPoolMetrics
}

// ChartDayRecord is one chart day of a pool or token.
type ChartDayRecord struct {
	Address string `json:"address"`
	model.DailyChartEntry
}

// Multi fans records out to every sink in order and stops at the first error.
type Multi []Sink

// PutPoolMetrics writes metrics to each sink.
func (m Multi) PutPoolMetrics(ctx context.Context, observedAt time.Time, metrics []model.DerivedPoolMetrics) error {
	for _, sink := range m {
		if err := sink.PutPoolMetrics(ctx, observedAt, metrics); err != nil {
			return err
		}
	}
	return nil
}

// PutChartDays writes the chart days of address to each sink.
func (m Multi) PutChartDays(ctx context.Context, address string, days []model.DailyChartEntry) error {
	for _, sink := range m {
		if err := sink.PutChartDays(ctx, address, days); err != nil {
			return err
		}
	}
	return nil
}
