package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPhotos     = "fergdesign:photos"
	cacheKeyCategories = "fergdesign:video-categories"
)

// CacheService keeps serialized public listings in Redis. A nil client
// disables it; every method is then a no-op or a miss.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCacheService(client *redis.Client, ttl time.Duration, log *zap.Logger) *CacheService {
	return &CacheService{client: client, ttl: ttl, log: log}
}

func generationKey(key string) string {
	return key + ":gen"
}

func (c *CacheService) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Slot returns the versioned key a listing is read from and stored under.
// Invalidate bumps the version, so a listing built from a snapshot taken
// before a write lands under a slot nobody reads anymore. An empty slot
// means the cache is unavailable for this call.
func (c *CacheService) Slot(ctx context.Context, key string) string {
	if !c.enabled() {
		return ""
	}
	gen, err := c.client.Get(ctx, generationKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("cache generation read failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return fmt.Sprintf("%s:%d", key, gen)
}

// Get reports whether slot was found and decoded into dest.
func (c *CacheService) Get(ctx context.Context, slot string, dest interface{}) bool {
	if !c.enabled() || slot == "" {
		return false
	}
	data, err := c.client.Get(ctx, slot).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", zap.String("slot", slot), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("slot", slot), zap.Error(err))
		return false
	}
	return true
}

func (c *CacheService) Set(ctx context.Context, slot string, value interface{}) {
	if !c.enabled() || slot == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("slot", slot), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, slot, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("slot", slot), zap.Error(err))
	}
}

// Invalidate moves keys to a new generation. It runs after a committed
// write, so it ignores request cancellation.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
		}
		return nil
	})
	if err != nil {
		c.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *CacheService) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
