package subgraph

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"volScope/internal/model"
	"volScope/internal/numeric"
)

// PageSize is the subgraph's maximum page length for list queries.
const PageSize = 1000

// ChartStartTime is the first day any V3 pool can have data for.
const ChartStartTime int64 = 1619170975

const poolFields = `
    id
    feeTier
    liquidity
    sqrtPrice
    tick
    token0 { id symbol name decimals derivedETH }
    token1 { id symbol name decimals derivedETH }
    poolDayData(first: 5, orderBy: date, orderDirection: desc) {
      txCount
      volumeUSD
    }
    token0Price
    token1Price
    volumeUSD
    volumeToken0
    volumeToken1
    txCount
    totalValueLockedToken0
    totalValueLockedToken1
    totalValueLockedUSD
    feesUSD`

const poolsQuery = `query pools($ids: [ID!]) {
  pools(where: {id_in: $ids}, orderBy: totalValueLockedUSD, orderDirection: desc, subgraphError: allow) {` + poolFields + `
  }
}`

const poolsAtBlockQuery = `query pools($ids: [ID!], $block: Int!) {
  pools(where: {id_in: $ids}, block: {number: $block}, orderBy: totalValueLockedUSD, orderDirection: desc, subgraphError: allow) {` + poolFields + `
  }
}`

const poolDayDatasQuery = `query poolDayDatas($startTime: Int!, $skip: Int!, $address: Bytes!) {
  poolDayDatas(first: 1000, skip: $skip, where: {pool: $address, date_gt: $startTime}, orderBy: date, orderDirection: asc, subgraphError: allow) {
    feeGrowthGlobal0X128
    feeGrowthGlobal1X128
    date
    volumeUSD
    volumeToken0
    volumeToken1
    tvlUSD
    tick
    feesUSD
    txCount
    liquidity
    token0Price
    token1Price
    pool { feeTier }
  }
}`

const tokenDayDatasQuery = `query tokenDayDatas($startTime: Int!, $skip: Int!, $address: Bytes!) {
  tokenDayDatas(first: 1000, skip: $skip, where: {token: $address, date_gt: $startTime}, orderBy: date, orderDirection: asc, subgraphError: allow) {
    date
    volumeUSD
    totalValueLockedUSD
    feesUSD
    priceUSD
  }
}`

const ethPriceQuery = `query bundles {
  bundles(where: {id: "1"}) { ethPriceUSD }
}`

const ethPriceAtBlockQuery = `query bundles($block: Int!) {
  bundles(where: {id: "1"}, block: {number: $block}) { ethPriceUSD }
}`

// blocksQuery selects, for each timestamp, the latest block in the ten minutes after it.
func blocksQuery(timestamps []int64) string {
	var b strings.Builder
	b.WriteString("query blocks {\n")
	for _, ts := range timestamps {
		fmt.Fprintf(&b, "  t%d: blocks(first: 1, orderBy: timestamp, orderDirection: desc, where: {timestamp_gt: %d, timestamp_lt: %d}) { number }\n", ts, ts, ts+600)
	}
	b.WriteString("}")
	return b.String()
}

// Pools reads pool snapshots by id. A block of 0 reads the latest indexed state.
func (c *Client) Pools(ctx context.Context, addresses []string, block int64) ([]model.RawPoolSnapshot, error) {
	ids := make([]string, 0, len(addresses))
	for _, address := range addresses {
		ids = append(ids, strings.ToLower(address))
	}

	query := poolsQuery
	variables := map[string]any{"ids": ids}
	if block > 0 {
		query = poolsAtBlockQuery
		variables["block"] = block
	}

	var out struct {
		Pools []model.RawPoolSnapshot `json:"pools"`
	}
	if err := c.Query(ctx, query, variables, &out); err != nil {
		return nil, fmt.Errorf("query pools at block %d: %w", block, err)
	}
	return out.Pools, nil
}

// EthPriceUSD reads the ETH/USD reference price. A block of 0 reads the latest value.
func (c *Client) EthPriceUSD(ctx context.Context, block int64) (numeric.Value, error) {
	query := ethPriceQuery
	var variables map[string]any
	if block > 0 {
		query = ethPriceAtBlockQuery
		variables = map[string]any{"block": block}
	}

	var out struct {
		Bundles []struct {
			EthPriceUSD string `json:"ethPriceUSD"`
		} `json:"bundles"`
	}
	if err := c.Query(ctx, query, variables, &out); err != nil {
		return numeric.Value{}, fmt.Errorf("query eth price at block %d: %w", block, err)
	}
	if len(out.Bundles) == 0 {
		return numeric.Value{}, nil
	}
	return numeric.Parse(out.Bundles[0].EthPriceUSD), nil
}

// PoolDayData reads every poolDayData row after startTime, oldest first.
func (c *Client) PoolDayData(ctx context.Context, address string, startTime int64) ([]model.RawPoolDayData, error) {
	var rows []model.RawPoolDayData
	for skip := 0; ; skip += PageSize {
		var out struct {
			PoolDayDatas []model.RawPoolDayData `json:"poolDayDatas"`
		}
		variables := map[string]any{"address": strings.ToLower(address), "startTime": startTime, "skip": skip}
		if err := c.Query(ctx, poolDayDatasQuery, variables, &out); err != nil {
			return nil, fmt.Errorf("query pool day data %s skip %d: %w", address, skip, err)
		}
		rows = append(rows, out.PoolDayDatas...)
		if len(out.PoolDayDatas) < PageSize {
			return rows, nil
		}
	}
}

// TokenDayData reads every tokenDayData row after startTime, oldest first.
func (c *Client) TokenDayData(ctx context.Context, address string, startTime int64) ([]model.RawTokenDayData, error) {
	var rows []model.RawTokenDayData
	for skip := 0; ; skip += PageSize {
		var out struct {
			TokenDayDatas []model.RawTokenDayData `json:"tokenDayDatas"`
		}
		variables := map[string]any{"address": strings.ToLower(address), "startTime": startTime, "skip": skip}
		if err := c.Query(ctx, tokenDayDatasQuery, variables, &out); err != nil {
			return nil, fmt.Errorf("query token day data %s skip %d: %w", address, skip, err)
		}
		rows = append(rows, out.TokenDayDatas...)
		if len(out.TokenDayDatas) < PageSize {
			return rows, nil
		}
	}
}

// BlocksAtTimestamps resolves each unix timestamp to a block number using a blocks subgraph.
// The result is aligned with timestamps.
func (c *Client) BlocksAtTimestamps(ctx context.Context, timestamps []int64) ([]int64, error) {
	if len(timestamps) == 0 {
		return nil, nil
	}

	var out map[string][]struct {
		Number string `json:"number"`
	}
	if err := c.Query(ctx, blocksQuery(timestamps), nil, &out); err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}

	blocks := make([]int64, len(timestamps))
	for i, ts := range timestamps {
		found := out["t"+strconv.FormatInt(ts, 10)]
		if len(found) == 0 {
			return nil, fmt.Errorf("no block found for timestamp %d", ts)
		}
		number, err := strconv.ParseInt(found[0].Number, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse block number %q: %w", found[0].Number, err)
		}
		blocks[i] = number
	}
	return blocks, nil
}
