package auctioncache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "auc_cache:"

// Cache is a best-effort read-through cache for auction read models. Values
// are opaque JSON payloads so the cache stays decoupled from the domain
// packages. Redis being down only costs the fast path, never correctness.
type Cache struct {
	rdc *redis.Client
	ttl time.Duration
}

func New(rdc *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdc: rdc, ttl: ttl}
}

// Get returns the cached payload for an auction id, or ok=false on a miss
// or any Redis error.
func (c *Cache) Get(ctx context.Context, id string) ([]byte, bool) {
	if c == nil || c.rdc == nil {
		return nil, false
	}
	payload, err := c.rdc.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Debug("auction_cache_get", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

func (c *Cache) Put(ctx context.Context, id string, payload []byte) {
	if c == nil || c.rdc == nil {
		return
	}
	if err := c.rdc.Set(ctx, keyPrefix+id, payload, c.ttl).Err(); err != nil {
		zap.L().Debug("auction_cache_put", zap.String("id", id), zap.Error(err))
	}
}

// Drop removes a cached auction; called after every successful write.
func (c *Cache) Drop(ctx context.Context, id string) {
	if c == nil || c.rdc == nil {
		return
	}
	if err := c.rdc.Del(ctx, keyPrefix+id).Err(); err != nil {
		zap.L().Debug("auction_cache_drop", zap.String("id", id), zap.Error(err))
	}
}
