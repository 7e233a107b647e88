package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

const (
	poolA = "0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"
	poolB = "0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"
)

func poolFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("pools", pflag.ContinueOnError)
	flags.StringSlice("pool", nil, "")
	flags.String("subgraph", "", "")
	flags.Int("history-days", 0, "")
	flags.String("filter.preset", "", "")
	flags.Bool("filter.high-iv", false, "")
	flags.Float64("price", 0, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoadPoolsFromFlags(t *testing.T) {
	flags := poolFlags(t, "--pool", poolA+","+poolB, "--filter.preset", "home", "--filter.high-iv")

	cfg, err := LoadPools("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{
		"0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8",
		"0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640",
	}
	if !reflect.DeepEqual(cfg.Pools, want) {
		t.Fatalf("unexpected pools: %v", cfg.Pools)
	}
	if cfg.HistoryDays != 95 || cfg.Concurrency != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Filter.RemoveLowLiquidity || cfg.Filter.MinTotalLockedTick != 1000 || !cfg.Filter.HighIV {
		t.Fatalf("unexpected filter: %+v", cfg.Filter)
	}
	if cfg.SubgraphURL == "" {
		t.Fatalf("expected default subgraph url")
	}
}

func TestLoadPoolsEnvOverridesFilter(t *testing.T) {
	t.Setenv("VOLSCOPE_FILTER_MIN_IV_RANK", "35")
	t.Setenv("VOLSCOPE_HISTORY_DAYS", "120")
	flags := poolFlags(t, "--pool", poolA, "--filter.preset", "overview")

	cfg, err := LoadPools("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Filter.MinIVRank != 35 || !cfg.Filter.RequireVolume {
		t.Fatalf("unexpected filter: %+v", cfg.Filter)
	}
	if cfg.HistoryDays != 120 {
		t.Fatalf("expected history 120, got %d", cfg.HistoryDays)
	}
}

func TestLoadPoolsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volscope.yaml")
	content := "pool:\n  - " + poolB + "\nfilter:\n  fee-tiers: [500, 3000]\n  only-stable-pairs: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadPools(path, poolFlags(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Filter.FeeTiers, []int{500, 3000}) || !cfg.Filter.OnlyStablePairs {
		t.Fatalf("unexpected filter: %+v", cfg.Filter)
	}
	if len(cfg.Pools) != 1 {
		t.Fatalf("unexpected pools: %v", cfg.Pools)
	}
}

func TestLoadPoolsErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no pools", nil},
		{"bad address", []string{"--pool", "0x123"}},
		{"unknown preset", []string{"--pool", poolA, "--filter.preset", "everything"}},
	}
	for _, tc := range cases {
		if _, err := LoadPools("", poolFlags(t, tc.args...)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadTooltipRequiresPrice(t *testing.T) {
	if _, err := LoadTooltip("", poolFlags(t, "--pool", poolA)); err == nil {
		t.Fatalf("expected error without price")
	}
	cfg, err := LoadTooltip("", poolFlags(t, "--pool", poolA, "--price", "1800"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Price != 1800 || cfg.Out != "-" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadChartNeedsOneTarget(t *testing.T) {
	newFlags := func(args ...string) *pflag.FlagSet {
		flags := pflag.NewFlagSet("chart", pflag.ContinueOnError)
		flags.String("pool", "", "")
		flags.String("token", "", "")
		flags.String("since", "", "")
		if err := flags.Parse(args); err != nil {
			t.Fatalf("parse flags: %v", err)
		}
		return flags
	}

	if _, err := LoadChart("", newFlags()); err == nil {
		t.Fatalf("expected error without target")
	}
	if _, err := LoadChart("", newFlags("--pool", poolA, "--token", poolB)); err == nil {
		t.Fatalf("expected error with two targets")
	}

	cfg, err := LoadChart("", newFlags("--token", poolB, "--since", "2021-05-05T00:00:00Z"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640" || cfg.Pool != "" {
		t.Fatalf("unexpected target: %+v", cfg)
	}
	if cfg.Since != 1620172800 {
		t.Fatalf("unexpected since: %d", cfg.Since)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("1620172800")
	if err != nil || got != 1620172800 {
		t.Fatalf("unexpected result: %d %v", got, err)
	}
	if got, err := ParseTimestamp(""); err != nil || got != 0 {
		t.Fatalf("expected zero for empty input, got %d %v", got, err)
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}
