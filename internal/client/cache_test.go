package client

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseCache(t *testing.T, cache Cache) {
	t.Helper()
	ctx := context.Background()

	keys := []Key{
		{"/api/factories"},
		{"/api/factories", "1"},
		{"/api/factories", "2"},
		{"/api/factories/search", "acme"},
		{"/api/inspections", "list"},
	}
	for _, k := range keys {
		if err := cache.Set(ctx, k, []byte(k.String())); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	if err := cache.Invalidate(ctx, Key{"/api/factories"}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	want := map[string]bool{
		Key{"/api/factories"}.String():                false,
		Key{"/api/factories", "1"}.String():           false,
		Key{"/api/factories", "2"}.String():           false,
		Key{"/api/factories/search", "acme"}.String(): true,
		Key{"/api/inspections", "list"}.String():      true,
	}
	for _, k := range keys {
		val, ok, err := cache.Get(ctx, k)
		if err != nil {
			t.Fatalf("Get %s: %v", k, err)
		}
		if ok != want[k.String()] {
			t.Errorf("%s: present=%v, want %v", k, ok, want[k.String()])
		}
		if ok && string(val) != k.String() {
			t.Errorf("%s: unexpected value %q", k, val)
		}
	}

	cache.Invalidate(ctx, Key{"/api/factories/search"})
	if _, ok, _ := cache.Get(ctx, Key{"/api/factories/search", "acme"}); ok {
		t.Error("expected search entries invalidated")
	}
}

func TestKeyHasPrefix(t *testing.T) {
	k := Key{"/api/factories", "7"}
	if !k.HasPrefix(Key{"/api/factories"}) || !k.HasPrefix(nil) || !k.HasPrefix(k) {
		t.Fatal("expected prefix match")
	}
	if k.HasPrefix(Key{"/api/fact"}) || k.HasPrefix(Key{"/api/factories", "7", "x"}) {
		t.Fatal("expected whole-segment matching only")
	}
}

func TestMemoryCachePrefixInvalidation(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestRedisCachePrefixInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cache := NewRedisCache(rdb, "test", time.Minute)
	exerciseCache(t, cache)

	cache.Set(context.Background(), Key{"/api/factories"}, []byte("x"))
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(context.Background(), Key{"/api/factories"}); ok {
		t.Error("expected entry to expire")
	}
}
