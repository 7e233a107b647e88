package model

// TokenInfo is the display metadata of one pool leg.
type TokenInfo struct {
	Address    string  `json:"address"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Decimals   int     `json:"decimals"`
	DerivedETH float64 `json:"derived_eth"`
}

// DerivedPoolMetrics carries every number the pool tables and charts display.
// All ratio fields are finite; missing inputs resolve to 0.
type DerivedPoolMetrics struct {
	Address   string    `json:"address"`
	FeeTier   int       `json:"fee_tier"`
	Liquidity float64   `json:"liquidity"`
	SqrtPrice float64   `json:"sqrt_price"`
	Tick      float64   `json:"tick"`
	Token0    TokenInfo `json:"token0"`
	Token1    TokenInfo `json:"token1"`

	Token0Price float64 `json:"token0_price"`
	Token1Price float64 `json:"token1_price"`

	VolumeUSD       float64 `json:"volume_usd"`
	VolumeUSDChange float64 `json:"volume_usd_change"`
	VolumeUSDWeek   float64 `json:"volume_usd_week"`
	FeesUSD         float64 `json:"fees_usd"`
	FeesUSDChange   float64 `json:"fees_usd_change"`
	TvlUSD          float64 `json:"tvl_usd"`
	TvlUSDChange    float64 `json:"tvl_usd_change"`
	TvlToken0       float64 `json:"tvl_token0"`
	TvlToken1       float64 `json:"tvl_token1"`

	TvlTickToken0   float64 `json:"tvl_tick_token0"`
	TvlTickToken1   float64 `json:"tvl_tick_token1"`
	TvlTickAvg      float64 `json:"tvl_tick_avg"`
	TotalLockedTick float64 `json:"total_locked_tick"`
	EthPrice        float64 `json:"eth_price"`

	VolumeToTvl float64 `json:"volume_to_tvl"`
	VolLiq      float64 `json:"vol_liq"`
	Volatility  float64 `json:"volatility"`
	IVRank      float64 `json:"iv_rank"`
}
