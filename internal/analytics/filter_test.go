package analytics

import (
	"reflect"
	"testing"

	"volScope/internal/model"
)

func filterPools() []model.DerivedPoolMetrics {
	return []model.DerivedPoolMetrics{
		{Address: "eth-usdc", FeeTier: 500, TotalLockedTick: 5000, VolumeUSD: 10,
			Token0: model.TokenInfo{Symbol: "USDC"}, Token1: model.TokenInfo{Symbol: "ETH"}, Volatility: 0.1, IVRank: 50},
		{Address: "thin", FeeTier: 3000, TotalLockedTick: 500, VolumeUSD: 10,
			Token0: model.TokenInfo{Symbol: "AAA"}, Token1: model.TokenInfo{Symbol: "BBB"}, Volatility: 0.01, IVRank: 10},
		{Address: "idle", FeeTier: 10000, TotalLockedTick: 200, VolumeUSD: 0,
			Token0: model.TokenInfo{Symbol: "DAI"}, Token1: model.TokenInfo{Symbol: "CCC"}, Volatility: 0.2, IVRank: 90},
		{Address: "odd-tier", FeeTier: 2500, TotalLockedTick: 5000, VolumeUSD: 10,
			Token0: model.TokenInfo{Symbol: "ETH"}, Token1: model.TokenInfo{Symbol: "DDD"}},
	}
}

func addresses(pools []model.DerivedPoolMetrics) []string {
	out := make([]string, 0, len(pools))
	for _, p := range pools {
		out = append(out, p.Address)
	}
	return out
}

func TestFilterPresets(t *testing.T) {
	cases := []struct {
		name   string
		filter PoolFilter
		want   []string
	}{
		{"none", NoFilter(), []string{"eth-usdc", "thin", "idle"}},
		{"home", HomeFilter(), []string{"eth-usdc"}},
		{"overview", OverviewFilter(), []string{"eth-usdc", "thin"}},
	}
	for _, tc := range cases {
		got := addresses(tc.filter.Apply(filterPools()))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterToggles(t *testing.T) {
	f := NoFilter()
	f.OnlyETHPairs = true
	if got := addresses(f.Apply(filterPools())); !reflect.DeepEqual(got, []string{"eth-usdc"}) {
		t.Fatalf("eth pairs: %v", got)
	}

	f = NoFilter()
	f.OnlyStablePairs = true
	if got := addresses(f.Apply(filterPools())); !reflect.DeepEqual(got, []string{"eth-usdc", "idle"}) {
		t.Fatalf("stable pairs: %v", got)
	}

	f = NoFilter()
	f.HighIV = true
	f.MinAnnualizedIV = 100
	// 0.1 * sqrt(365) * 100 ~ 191%; 0.01 ~ 19%
	if got := addresses(f.Apply(filterPools())); !reflect.DeepEqual(got, []string{"eth-usdc", "idle"}) {
		t.Fatalf("high iv: %v", got)
	}

	f = NoFilter()
	f.HighIVRank = true
	f.MinIVRank = 20
	if got := addresses(f.Apply(filterPools())); !reflect.DeepEqual(got, []string{"eth-usdc", "idle"}) {
		t.Fatalf("high iv rank: %v", got)
	}

	f = NoFilter()
	f.FeeTiers = []int{3000}
	if got := addresses(f.Apply(filterPools())); !reflect.DeepEqual(got, []string{"thin"}) {
		t.Fatalf("fee tiers: %v", got)
	}
}

func TestPreset(t *testing.T) {
	if _, ok := Preset("bogus"); ok {
		t.Fatalf("unknown preset should not resolve")
	}
	f, ok := Preset("overview")
	if !ok || !f.RequireVolume || f.MinTotalLockedTick != 100 {
		t.Fatalf("overview preset mismatch: %+v", f)
	}
}
