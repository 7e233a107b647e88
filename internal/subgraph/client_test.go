package subgraph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, handler func(req capturedRequest) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func testClient(url string, cache Cache) *Client {
	return NewClient(url, Options{MaxRetries: 2, RetryBaseDelay: time.Millisecond, Cache: cache})
}

func TestQueryDecodesData(t *testing.T) {
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		if req.Variables["name"] != "x" {
			t.Errorf("unexpected variables: %+v", req.Variables)
		}
		return http.StatusOK, `{"data":{"value":"42"}}`
	})

	var out struct {
		Value string `json:"value"`
	}
	if err := testClient(server.URL, nil).Query(context.Background(), "query { value }", map[string]any{"name": "x"}, &out); err != nil {
		t.Fatalf("query: %v", err)
	}
	if out.Value != "42" {
		t.Fatalf("expected 42, got %q", out.Value)
	}
}

func TestQueryErrorIsNotRetried(t *testing.T) {
	server, calls := newTestServer(t, func(capturedRequest) (int, string) {
		return http.StatusOK, `{"data":null,"errors":[{"message":"bad field"}]}`
	})

	err := testClient(server.URL, nil).Query(context.Background(), "query { x }", nil, nil)
	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad field") {
		t.Fatalf("unexpected message: %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestQueryRetriesServerErrors(t *testing.T) {
	var attempt int32
	server, calls := newTestServer(t, func(capturedRequest) (int, string) {
		if atomic.AddInt32(&attempt, 1) < 3 {
			return http.StatusBadGateway, "upstream"
		}
		return http.StatusOK, `{"data":{}}`
	})

	if err := testClient(server.URL, nil).Query(context.Background(), "query { x }", nil, nil); err != nil {
		t.Fatalf("query: %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 3 {
		t.Fatalf("expected 3 calls, got %d", got)
	}
}

func TestQueryClientErrorIsFinal(t *testing.T) {
	server, calls := newTestServer(t, func(capturedRequest) (int, string) {
		return http.StatusBadRequest, "nope"
	})

	err := testClient(server.URL, nil).Query(context.Background(), "query { x }", nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func TestQueryUsesCache(t *testing.T) {
	server, calls := newTestServer(t, func(capturedRequest) (int, string) {
		return http.StatusOK, `{"data":{"value":"1"}}`
	})
	client := testClient(server.URL, &memoryCache{items: map[string][]byte{}})

	for i := 0; i < 2; i++ {
		var out struct {
			Value string `json:"value"`
		}
		if err := client.Query(context.Background(), "query { value }", nil, &out); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if out.Value != "1" {
			t.Fatalf("query %d: unexpected value %q", i, out.Value)
		}
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
