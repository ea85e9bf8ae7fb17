package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wintercraft/storefront/internal/models"
)

const productListKey = "products:all"

// ErrCacheMiss is returned when no cached list is present.
var ErrCacheMiss = errors.New("cache miss")

// ProductCache keeps the full product list in Redis so the public listing
// endpoint avoids a Mongo round-trip on every hit. Mutations invalidate the
// key; staleness is otherwise bounded by the TTL.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) GetList(ctx context.Context) ([]models.Product, error) {
	raw, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.rdb.Del(ctx, productListKey).Err()
		return nil, ErrCacheMiss
	}
	return products, nil
}

func (c *ProductCache) SetList(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productListKey, raw, c.ttl).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, productListKey).Err()
}
