package analytics

import (
	"volScope/internal/model"
	"volScope/internal/numeric"
)

const (
	// ivrWindowDays is the trailing range the current IV is ranked against.
	ivrWindowDays = 90
	// ivrSkipRecent drops the newest days from the range; they are still filling in.
	ivrSkipRecent = 5
)

// DayIV is the per-day volatility proxy volumeToken0 * sqrt(token1Price) / liquidity.
// ok is false for days without liquidity, such as gap-filled days.
func DayIV(day model.DailyChartEntry) (float64, bool) {
	if day.Liquidity <= 0 {
		return 0, false
	}
	iv := numeric.Div(day.VolumeToken0*numeric.Sqrt(day.Token1Price), day.Liquidity, 0)
	return iv, true
}

// IVRank ranks the newest day's IV within the trailing window of history (ascending dates),
// on a 0-100 scale. A degenerate window ranks 0.
func IVRank(history []model.DailyChartEntry) float64 {
	if len(history) == 0 {
		return 0
	}
	current, ok := DayIV(history[len(history)-1])
	if !ok {
		return 0
	}

	end := len(history) - ivrSkipRecent
	if end <= 0 {
		return 0
	}
	start := end - ivrWindowDays
	if start < 0 {
		start = 0
	}

	var low, high float64
	found := false
	for _, day := range history[start:end] {
		iv, ok := DayIV(day)
		if !ok {
			continue
		}
		if !found {
			low, high = iv, iv
			found = true
			continue
		}
		if iv < low {
			low = iv
		}
		if iv > high {
			high = iv
		}
	}
	if !found || high <= low {
		return 0
	}

	rank := numeric.Div(100*(current-low), high-low, 0)
	if rank < 0 {
		return 0
	}
	if rank > 100 {
		return 100
	}
	return rank
}
