package analytics

import (
	"math"

	"volScope/internal/numeric"
)

const (
	// DeltaMaxVolatility caps the volatility proxy; raw values can be unrealistically large.
	DeltaMaxVolatility = 0.26
	// DeltaDaysToExpiry is the fixed two-week option tenor assumed by the tooltip.
	DeltaDaysToExpiry = 14
)

// Delta is an at-the-money style delta approximation for tooltip display.
type Delta struct {
	Sigma        float64 `json:"sigma"`
	DaysToExpiry float64 `json:"days_to_expiry"`
	// Call is the call delta in [0, 1].
	Call float64 `json:"call"`
	// PutPercent is the put delta in probability terms, 100 - Call*100.
	PutPercent float64 `json:"put_percent"`
}

// ApproxDelta computes 0.5 + 0.5*erf((ln(price/strike) + dte/2*sigma^2) / (sigma*sqrt(2*dte)))
// with sigma = min(volatility, 0.26) and dte = 14.
func ApproxDelta(currentPrice, strike, volatility float64) Delta {
	// A NaN proxy becomes 0 and takes the step branch; +Inf caps like any large value.
	sigma := numeric.Finite(math.Min(volatility, DeltaMaxVolatility), 0)
	dte := float64(DeltaDaysToExpiry)
	d := Delta{Sigma: sigma, DaysToExpiry: dte}

	switch {
	case currentPrice <= 0 || strike <= 0:
		d.Call = 0
	case sigma <= 0:
		d.Call = step(currentPrice, strike)
	default:
		x := (math.Log(currentPrice/strike) + (dte/2)*sigma*sigma) / (sigma * math.Sqrt(2*dte))
		d.Call = 0.5 + 0.5*math.Erf(x)
	}
	d.PutPercent = 100 - d.Call*100
	return d
}

// step is the zero-volatility limit of the delta.
func step(price, strike float64) float64 {
	switch {
	case price > strike:
		return 1
	case price < strike:
		return 0
	default:
		return 0.5
	}
}
