// Package cache keeps finished analyses in Redis so repeated requests skip the pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ytemotion/internal/model"
)

const (
	analysisKeyPrefix = "analysis:"

	// DefaultTTL applies when New is given a non-positive TTL.
	DefaultTTL = 30 * time.Minute
)

// Cache stores analyses in Redis. A nil *Cache is valid and caches nothing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, ttl time.Duration, log zerolog.Logger) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl, log: log}, nil
}

// Key identifies an analysis by the inputs that determine its result.
func Key(videoID string, maxComments int, language string, ct model.ChartType) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%s", videoID, maxComments, language, ct)))
	return analysisKeyPrefix + hex.EncodeToString(sum[:16])
}

// GetAnalysis returns the cached analysis for key, or nil on a miss.
// Redis and decoding failures are logged and reported as misses.
func (c *Cache) GetAnalysis(ctx context.Context, key string) *model.Analysis {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Str("event", "cache_get_failed").Str("key", key).Err(err).Msg("")
		}
		return nil
	}

	var a model.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		c.log.Warn().Str("event", "cache_decode_failed").Str("key", key).Err(err).Msg("")
		return nil
	}
	return &a
}

// SetAnalysis caches a for the configured TTL. Failures are logged.
func (c *Cache) SetAnalysis(ctx context.Context, key string, a *model.Analysis) {
	if c == nil || a == nil {
		return
	}

	data, err := json.Marshal(a)
	if err != nil {
		c.log.Warn().Str("event", "cache_encode_failed").Str("key", key).Err(err).Msg("")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Str("event", "cache_set_failed").Str("key", key).Err(err).Msg("")
	}
}

// Invalidate removes every cached entry that points at the analysis id.
func (c *Cache) Invalidate(ctx context.Context, analysisID string) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, analysisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if a := c.GetAnalysis(ctx, key); a != nil && a.ID == analysisID {
			c.client.Del(ctx, key)
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Str("event", "cache_invalidate_failed").Str("analysis_id", analysisID).Err(err).Msg("")
	}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
