package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	summaryKeyPrefix = "sales:summary:"
	generationKey    = summaryKeyPrefix + "gen"
)

// SummaryCache stores JSON-encoded aggregation results under a generation
// counter. Invalidation increments the counter; entries of older generations
// are never read again and expire with their TTL. Cache errors are logged,
// never returned: a miss just means recomputing.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl, logger: logger}
}

func entryKey(gen int64, key string) string {
	return summaryKeyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}

// Generation reads the current counter. A missing counter is generation 0.
func (c *SummaryCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("Summary cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Get decodes the value stored under key into dst and reports a hit.
func (c *SummaryCache) Get(ctx context.Context, gen int64, key string, dst any) bool {
	data, err := c.client.Get(ctx, entryKey(gen, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Summary cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Summary cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *SummaryCache) Set(ctx context.Context, gen int64, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Summary cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, entryKey(gen, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate retires every cached summary by advancing the generation.
func (c *SummaryCache) Invalidate(ctx context.Context) {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		c.logger.Error("Summary cache invalidation failed", zap.Error(err))
		return
	}
	c.logger.Debug("Summary cache invalidated", zap.Int64("generation", gen))
}
