// Package subgraph reads Uniswap V3 pool data from a GraphQL subgraph endpoint.
package subgraph

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Cache stores raw response data keyed by request. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Options tune a Client. Zero values fall back to defaults.
type Options struct {
	HTTPClient     *http.Client
	MaxRetries     int
	RetryBaseDelay time.Duration
	Cache          Cache
	Logger         *zap.Logger
}

// Client posts GraphQL queries to one subgraph endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	cache      Cache
	logger     *zap.Logger
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// NewClient creates a client for the endpoint.
func NewClient(endpoint string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.RetryBaseDelay,
		cache:      opts.Cache,
		logger:     logger,
	}
}

// Endpoint returns the subgraph URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query runs a GraphQL query and decodes its data object into out.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	key := c.cacheKey(body)
	if data, ok := c.cached(ctx, key); ok {
		return decodeData(data, out)
	}

	var data json.RawMessage
	err = withRetry(ctx, c.maxRetries, c.baseDelay, func(ctx context.Context) error {
		var postErr error
		data, postErr = c.post(ctx, body)
		if postErr != nil {
			c.logger.Warn("subgraph query failed", zap.Error(postErr), zap.String("endpoint", c.endpoint))
		}
		return postErr
	})
	if err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, data); err != nil {
			c.logger.Warn("cache set failed", zap.Error(err))
		}
	}
	return decodeData(data, out)
}

func (c *Client) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(payload, 256)}
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, &QueryError{Errors: decoded.Errors}
	}
	if len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return nil, &QueryError{Errors: []GraphQLError{{Message: "empty data"}}}
	}
	return decoded.Data, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (c *Client) cacheKey(body []byte) string {
	sum := sha256.Sum256(append([]byte(c.endpoint+"\n"), body...))
	return hex.EncodeToString(sum[:])
}

func decodeData(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
