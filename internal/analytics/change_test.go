package analytics

import (
	"testing"

	"volScope/internal/numeric"
)

func TestTwoDayChangeUsesPriors(t *testing.T) {
	value, change := TwoDayChange(200, numeric.Parse("100"), numeric.Parse("50"))
	if value != 200 {
		t.Fatalf("value mismatch: %v", value)
	}
	if change != 100 {
		t.Fatalf("change should compare the 24h prior with the 48h prior, got %v", change)
	}
}

func TestTwoDayChangeMissingPriors(t *testing.T) {
	value, change := TwoDayChange(200, numeric.Value{}, numeric.Value{})
	if value != 200 || change != 0 {
		t.Fatalf("missing priors: got (%v, %v)", value, change)
	}

	value, change = TwoDayChange(200, numeric.Parse("100"), numeric.Value{})
	if value != 200 || change != 0 {
		t.Fatalf("one missing prior: got (%v, %v)", value, change)
	}
}

func TestTwoDayChangeZeroBase(t *testing.T) {
	_, change := TwoDayChange(200, numeric.Parse("100"), numeric.Parse("0"))
	if change != 0 {
		t.Fatalf("zero base should not divide, got %v", change)
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(150, 100); got != 50 {
		t.Fatalf("percent change mismatch: %v", got)
	}
	if got := PercentChange(50, 100); got != -50 {
		t.Fatalf("percent change mismatch: %v", got)
	}
}
