package model

// RawToken is a token leg as served by the subgraph. Numeric fields are decimal strings.
type RawToken struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Decimals   string `json:"decimals"`
	DerivedETH string `json:"derivedETH"`
}

// RawDayVolume is one of the trailing day buckets embedded in a pool snapshot, newest first.
type RawDayVolume struct {
	TxCount   string `json:"txCount"`
	VolumeUSD string `json:"volumeUSD"`
}

// RawPoolSnapshot is a pool as of one queried block.
type RawPoolSnapshot struct {
	ID                     string         `json:"id"`
	FeeTier                string         `json:"feeTier"`
	Liquidity              string         `json:"liquidity"`
	SqrtPrice              string         `json:"sqrtPrice"`
	Tick                   string         `json:"tick"`
	Token0                 RawToken       `json:"token0"`
	Token1                 RawToken       `json:"token1"`
	PoolDayData            []RawDayVolume `json:"poolDayData"`
	Token0Price            string         `json:"token0Price"`
	Token1Price            string         `json:"token1Price"`
	VolumeUSD              string         `json:"volumeUSD"`
	VolumeToken0           string         `json:"volumeToken0"`
	VolumeToken1           string         `json:"volumeToken1"`
	TxCount                string         `json:"txCount"`
	TotalValueLockedToken0 string         `json:"totalValueLockedToken0"`
	TotalValueLockedToken1 string         `json:"totalValueLockedToken1"`
	TotalValueLockedUSD    string         `json:"totalValueLockedUSD"`
	FeesUSD                string         `json:"feesUSD"`
}

// RawPoolDayData is a poolDayData row. Date is the unix timestamp of the day start.
type RawPoolDayData struct {
	Date                 int64  `json:"date"`
	FeeGrowthGlobal0X128 string `json:"feeGrowthGlobal0X128"`
	FeeGrowthGlobal1X128 string `json:"feeGrowthGlobal1X128"`
	VolumeUSD            string `json:"volumeUSD"`
	VolumeToken0         string `json:"volumeToken0"`
	VolumeToken1         string `json:"volumeToken1"`
	TvlUSD               string `json:"tvlUSD"`
	FeesUSD              string `json:"feesUSD"`
	Tick                 string `json:"tick"`
	TxCount              string `json:"txCount"`
	Liquidity            string `json:"liquidity"`
	Token0Price          string `json:"token0Price"`
	Token1Price          string `json:"token1Price"`
	Pool                 struct {
		FeeTier string `json:"feeTier"`
	} `json:"pool"`
}

// RawTokenDayData is a tokenDayData row.
type RawTokenDayData struct {
	Date                int64  `json:"date"`
	VolumeUSD           string `json:"volumeUSD"`
	TotalValueLockedUSD string `json:"totalValueLockedUSD"`
	FeesUSD             string `json:"feesUSD"`
	PriceUSD            string `json:"priceUSD"`
}

// SnapshotSet groups the snapshots of one pool at the queried offsets. Any member may be nil.
type SnapshotSet struct {
	Current *RawPoolSnapshot
	OneDay  *RawPoolSnapshot
	TwoDay  *RawPoolSnapshot
	Week    *RawPoolSnapshot
}
