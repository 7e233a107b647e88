// Package chain resolves historical timestamps to block numbers over JSON-RPC.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// avgBlockTime is the mainnet slot time in seconds, used to seed the block search.
const avgBlockTime = 12

// HeaderReader is the subset of ethclient.Client used for block lookups.
type HeaderReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Client wraps go-ethereum RPC and caches block timestamps.
type Client struct {
	rpcClient *rpc.Client
	headers   HeaderReader

	mu      sync.RWMutex
	tsCache map[uint64]uint64
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	client := NewClientWithReader(ethclient.NewClient(rpcClient))
	client.rpcClient = rpcClient
	return client, nil
}

// NewClientWithReader creates a client on top of an existing header source.
func NewClientWithReader(headers HeaderReader) *Client {
	return &Client{
		headers: headers,
		tsCache: make(map[uint64]uint64),
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.headers.BlockNumber(ctx)
}

// BlockTimestamp returns the block timestamp, using an in-memory cache.
func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	c.mu.RLock()
	ts, ok := c.tsCache[number]
	c.mu.RUnlock()
	if ok {
		return ts, nil
	}

	header, err := c.headers.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, fmt.Errorf("header %d: %w", number, err)
	}

	ts = header.Time
	c.mu.Lock()
	c.tsCache[number] = ts
	c.mu.Unlock()

	return ts, nil
}

// BlockAtTimestamp returns the newest block mined at or before ts.
func (c *Client) BlockAtTimestamp(ctx context.Context, ts uint64) (uint64, error) {
	latest, err := c.LatestBlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest block: %w", err)
	}
	latestTs, err := c.BlockTimestamp(ctx, latest)
	if err != nil {
		return 0, err
	}
	if latestTs <= ts {
		return latest, nil
	}

	lo, err := c.lowerBound(ctx, latest, latestTs, ts)
	if err != nil {
		return 0, err
	}
	hi := latest
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		midTs, err := c.BlockTimestamp(ctx, mid)
		if err != nil {
			return 0, err
		}
		if midTs <= ts {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// lowerBound returns a block mined at or before ts, or block 0. It starts from twice the
// distance expected at avgBlockTime and doubles the distance until it lands before ts.
func (c *Client) lowerBound(ctx context.Context, latest, latestTs, ts uint64) (uint64, error) {
	gap := (latestTs - ts) / avgBlockTime * 2
	if gap == 0 {
		gap = 1
	}
	for gap < latest {
		lo := latest - gap
		loTs, err := c.BlockTimestamp(ctx, lo)
		if err != nil {
			return 0, err
		}
		if loTs <= ts {
			return lo, nil
		}
		gap *= 2
	}
	return 0, nil
}

// BlocksAtTimestamps resolves each unix timestamp. The result is aligned with timestamps.
func (c *Client) BlocksAtTimestamps(ctx context.Context, timestamps []int64) ([]int64, error) {
	blocks := make([]int64, len(timestamps))
	for i, ts := range timestamps {
		if ts < 0 {
			return nil, fmt.Errorf("negative timestamp %d", ts)
		}
		block, err := c.BlockAtTimestamp(ctx, uint64(ts))
		if err != nil {
			return nil, fmt.Errorf("block at %d: %w", ts, err)
		}
		blocks[i] = int64(block)
	}
	return blocks, nil
}
