package numeric

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{"1234.5678", Value{Float: 1234.5678, OK: true}},
		{"  42 ", Value{Float: 42, OK: true}},
		{"-0.5", Value{Float: -0.5, OK: true}},
		{"1e18", Value{Float: 1e18, OK: true}},
		{"5000000000000000000", Value{Float: 5e18, OK: true}},
		{"", Value{}},
		{"abc", Value{}},
	}
	for _, tc := range cases {
		got := Parse(tc.in)
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	if got := Float("", 1); got != 1 {
		t.Fatalf("missing field should take default, got %v", got)
	}
	if got := Float("0", 1); got != 0 {
		t.Fatalf("zero is a present value, got %v", got)
	}
	if got := Int("3000", 0); got != 3000 {
		t.Fatalf("int parse mismatch: %d", got)
	}
	if got := Int("18.9", 0); got != 18 {
		t.Fatalf("int parse should truncate: %d", got)
	}
	if got := Int("", 7); got != 7 {
		t.Fatalf("int default mismatch: %d", got)
	}
}

func TestDivAndSqrt(t *testing.T) {
	if got := Div(1, 0, 0); got != 0 {
		t.Fatalf("div by zero should fall back, got %v", got)
	}
	if got := Div(6, 3, 0); got != 2 {
		t.Fatalf("div mismatch: %v", got)
	}
	if got := Div(math.MaxFloat64, 1e-300, -1); got != -1 {
		t.Fatalf("overflow should fall back, got %v", got)
	}
	if got := Sqrt(-4); got != 0 {
		t.Fatalf("sqrt of negative should be 0, got %v", got)
	}
	if got := Sqrt(16); got != 4 {
		t.Fatalf("sqrt mismatch: %v", got)
	}
	if got := Finite(math.NaN(), 3); got != 3 {
		t.Fatalf("finite mismatch: %v", got)
	}
}
