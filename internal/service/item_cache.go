package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-hub/lostfound-service/internal/domain"
)

// ItemCache caches item detail rows between reads. Implementations are
// best-effort; a miss or backend outage falls through to Postgres.
type ItemCache interface {
	Get(ctx context.Context, id string) (*domain.FoundItem, bool)
	Set(ctx context.Context, item *domain.FoundItem)
	Invalidate(ctx context.Context, id string)
}

type redisItemCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisItemCache builds a Redis-backed item cache.
func NewRedisItemCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ItemCache {
	return &redisItemCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return "found_item:" + id
}

func (c *redisItemCache) Get(ctx context.Context, id string) (*domain.FoundItem, bool) {
	payload, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("item cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var item domain.FoundItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return nil, false
	}
	return &item, true
}

func (c *redisItemCache) Set(ctx context.Context, item *domain.FoundItem) {
	payload, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(item.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("item cache write failed", zap.Error(err))
	}
}

func (c *redisItemCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Debug("item cache invalidate failed", zap.Error(err))
	}
}
