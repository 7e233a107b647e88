package cache

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(ctx, time.Minute)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", []byte(`{"pools":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, []byte(`{"pools":[]}`)) {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestRedisCacheReportsConnectionErrors(t *testing.T) {
	c := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1", TTL: time.Minute})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, ok, err := c.Get(ctx, "k"); err == nil || ok {
		t.Fatalf("expected connection error, got ok=%v err=%v", ok, err)
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
}
