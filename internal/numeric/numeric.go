// Package numeric converts the decimal-string fields served by the subgraph into float64 values.
package numeric

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a parsed numeric field. OK is false when the source field was absent or not a number.
type Value struct {
	Float float64
	OK    bool
}

// Parse reads a decimal literal such as "1234.5678" or "1e18".
func Parse(input string) Value {
	input = strings.TrimSpace(input)
	if input == "" {
		return Value{}
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return Value{}
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, OK: true}
}

// Or returns the parsed value, or def when the field was missing.
func (v Value) Or(def float64) float64 {
	if !v.OK {
		return def
	}
	return v.Float
}

// Float parses input and falls back to def.
func Float(input string, def float64) float64 {
	return Parse(input).Or(def)
}

// Int parses input with parseInt semantics: the fractional part is dropped.
func Int(input string, def int) int {
	v := Parse(input)
	if !v.OK {
		return def
	}
	return int(math.Trunc(v.Float))
}

// Div returns num/den, or fallback when den is zero or the result is not finite.
func Div(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return Finite(num/den, fallback)
}

// Sqrt returns math.Sqrt(x), or 0 for negative or non-finite input.
func Sqrt(x float64) float64 {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Sqrt(x)
}

// Finite replaces NaN and ±Inf with fallback.
func Finite(x, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return x
}
