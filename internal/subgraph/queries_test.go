package subgraph

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestPoolsSelectsBlockQuery(t *testing.T) {
	var queries []capturedRequest
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		queries = append(queries, req)
		return http.StatusOK, `{"data":{"pools":[{"id":"0xabc","feeTier":"3000","token0":{"symbol":"WETH"}}]}}`
	})
	client := testClient(server.URL, nil)

	pools, err := client.Pools(context.Background(), []string{"0xABC"}, 0)
	if err != nil {
		t.Fatalf("pools: %v", err)
	}
	if len(pools) != 1 || pools[0].FeeTier != "3000" || pools[0].Token0.Symbol != "WETH" {
		t.Fatalf("unexpected pools: %+v", pools)
	}
	if _, err := client.Pools(context.Background(), []string{"0xabc"}, 123); err != nil {
		t.Fatalf("pools at block: %v", err)
	}

	if strings.Contains(queries[0].Query, "block:") {
		t.Fatalf("latest query should not pin a block: %s", queries[0].Query)
	}
	if !strings.Contains(queries[1].Query, "block: {number: $block}") {
		t.Fatalf("expected block clause: %s", queries[1].Query)
	}
	if queries[1].Variables["block"] != float64(123) {
		t.Fatalf("unexpected block variable: %+v", queries[1].Variables)
	}
	if !reflect.DeepEqual(queries[0].Variables["ids"], []any{"0xabc"}) {
		t.Fatalf("ids not lowercased: %+v", queries[0].Variables)
	}
}

func TestPoolDayDataPaginates(t *testing.T) {
	var skips []float64
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		skip := req.Variables["skip"].(float64)
		skips = append(skips, skip)
		count := PageSize
		if skip > 0 {
			count = 3
		}
		rows := make([]string, count)
		for i := range rows {
			rows[i] = fmt.Sprintf(`{"date":%d,"volumeUSD":"1","pool":{"feeTier":"500"}}`, int(skip)+i)
		}
		return http.StatusOK, `{"data":{"poolDayDatas":[` + strings.Join(rows, ",") + `]}}`
	})

	rows, err := testClient(server.URL, nil).PoolDayData(context.Background(), "0xPool", ChartStartTime)
	if err != nil {
		t.Fatalf("pool day data: %v", err)
	}
	if len(rows) != PageSize+3 {
		t.Fatalf("expected %d rows, got %d", PageSize+3, len(rows))
	}
	if !reflect.DeepEqual(skips, []float64{0, PageSize}) {
		t.Fatalf("unexpected skips: %v", skips)
	}
	if rows[PageSize].Pool.FeeTier != "500" {
		t.Fatalf("unexpected row: %+v", rows[PageSize])
	}
}

func TestTokenDayDataSinglePage(t *testing.T) {
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		if req.Variables["address"] != "0xtoken" {
			t.Errorf("unexpected address: %+v", req.Variables)
		}
		return http.StatusOK, `{"data":{"tokenDayDatas":[{"date":86400,"priceUSD":"2"}]}}`
	})

	rows, err := testClient(server.URL, nil).TokenDayData(context.Background(), "0xTOKEN", 0)
	if err != nil {
		t.Fatalf("token day data: %v", err)
	}
	if len(rows) != 1 || rows[0].PriceUSD != "2" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestEthPriceUSD(t *testing.T) {
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		if req.Variables["block"] == float64(7) {
			return http.StatusOK, `{"data":{"bundles":[]}}`
		}
		return http.StatusOK, `{"data":{"bundles":[{"ethPriceUSD":"1834.25"}]}}`
	})
	client := testClient(server.URL, nil)

	price, err := client.EthPriceUSD(context.Background(), 0)
	if err != nil {
		t.Fatalf("eth price: %v", err)
	}
	if !price.OK || price.Float != 1834.25 {
		t.Fatalf("unexpected price: %+v", price)
	}

	missing, err := client.EthPriceUSD(context.Background(), 7)
	if err != nil {
		t.Fatalf("eth price at block: %v", err)
	}
	if missing.OK {
		t.Fatalf("expected missing price, got %+v", missing)
	}
}

func TestBlocksAtTimestamps(t *testing.T) {
	server, _ := newTestServer(t, func(req capturedRequest) (int, string) {
		if !strings.Contains(req.Query, "t100: blocks(") || !strings.Contains(req.Query, "timestamp_lt: 700") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		return http.StatusOK, `{"data":{"t100":[{"number":"11"}],"t200":[{"number":"22"}]}}`
	})
	client := testClient(server.URL, nil)

	blocks, err := client.BlocksAtTimestamps(context.Background(), []int64{200, 100})
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if !reflect.DeepEqual(blocks, []int64{22, 11}) {
		t.Fatalf("unexpected blocks: %v", blocks)
	}

	if _, err := client.BlocksAtTimestamps(context.Background(), []int64{100, 300}); err == nil {
		t.Fatalf("expected error for unresolved timestamp")
	}
}
