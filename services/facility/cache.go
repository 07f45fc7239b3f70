package facility

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"courtbook/models"
)

const listingKey = "courtbook:facilities:listing"

// RedisListingCache keeps the facility listing in Redis. Court rollup flags
// in a cached listing may lag by up to TTL.
type RedisListingCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func (c *RedisListingCache) Get(ctx context.Context) ([]models.FacilityDetail, bool) {
	data, err := c.Client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger().Warn("facility listing cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var listing []models.FacilityDetail
	if err := json.Unmarshal(data, &listing); err != nil {
		c.logger().Warn("facility listing cache corrupt", zap.Error(err))
		return nil, false
	}
	return listing, true
}

func (c *RedisListingCache) Set(ctx context.Context, listing []models.FacilityDetail) {
	data, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, listingKey, data, c.ttl()).Err(); err != nil {
		c.logger().Warn("facility listing cache write failed", zap.Error(err))
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context) {
	if err := c.Client.Del(ctx, listingKey).Err(); err != nil {
		c.logger().Warn("facility listing cache invalidation failed", zap.Error(err))
	}
}

func (c *RedisListingCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return 30 * time.Second
	}
	return c.TTL
}

func (c *RedisListingCache) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
