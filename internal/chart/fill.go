// Package chart turns daily subgraph rows into contiguous chart series.
package chart

import (
	"sort"
	"time"

	"volScope/internal/model"
)

// FillDays returns the entries in ascending day order with every missing day between the
// first observed day and yesterday synthesized. Synthesized days have no activity and carry
// the last known TVL forward. Today is never synthesized; an observed entry for today is kept.
//
// The result depends on now and must be recomputed once a day boundary passes.
func FillDays(days map[int64]model.DailyChartEntry, now time.Time) []model.DailyChartEntry {
	if len(days) == 0 {
		return nil
	}

	keys := make([]int64, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	first := days[keys[0]]
	firstDay := keys[0]
	yesterday := now.Unix()/model.SecondsPerDay - 1
	last := keys[len(keys)-1]
	if yesterday > last {
		last = yesterday
	}

	out := make([]model.DailyChartEntry, 0, last-firstDay+1)
	latestTvl := first.TotalValueLockedUSD
	for day := firstDay; day <= last; day++ {
		if entry, ok := days[day]; ok {
			latestTvl = entry.TotalValueLockedUSD
			out = append(out, entry)
			continue
		}
		if day > yesterday {
			continue
		}
		out = append(out, model.DailyChartEntry{
			Date:                first.Date + (day-firstDay)*model.SecondsPerDay,
			TotalValueLockedUSD: latestTvl,
		})
	}
	return out
}

// ByDay indexes entries by day index. Later entries win on duplicate days.
func ByDay(entries []model.DailyChartEntry) map[int64]model.DailyChartEntry {
	out := make(map[int64]model.DailyChartEntry, len(entries))
	for _, entry := range entries {
		out[entry.DayIndex()] = entry
	}
	return out
}
