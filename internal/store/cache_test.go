package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wintercraft/storefront/internal/models"
)

func testCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProductCache(rdb, time.Minute), mr
}

func TestCacheMissWhenEmpty(t *testing.T) {
	cache, _ := testCache(t)

	if _, err := cache.GetList(context.Background()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	products := []models.Product{
		{CustomID: "prod-001", Name: "Walnut Bowl", Price: 24.5},
		{CustomID: "prod-002", Name: "Oak Tray", Price: 18},
	}
	if err := cache.SetList(ctx, products); err != nil {
		t.Fatalf("SetList error: %v", err)
	}

	got, err := cache.GetList(ctx)
	if err != nil {
		t.Fatalf("GetList error: %v", err)
	}
	if len(got) != 2 || got[0].CustomID != "prod-001" || got[1].Price != 18 {
		t.Fatalf("unexpected cached list: %+v", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	if err := cache.SetList(ctx, []models.Product{{CustomID: "prod-001"}}); err != nil {
		t.Fatalf("SetList error: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}

	if _, err := cache.GetList(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after invalidation, got %v", err)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	if err := cache.SetList(ctx, []models.Product{{CustomID: "prod-001"}}); err != nil {
		t.Fatalf("SetList error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.GetList(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	if err := mr.Set(productListKey, "{not json"); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	if _, err := cache.GetList(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
	if mr.Exists(productListKey) {
		t.Fatal("corrupt entry should have been dropped")
	}
}
