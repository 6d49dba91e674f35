// Package cache provides a Redis-backed response cache for the hot public
// read endpoints. Review list entries are invalidated explicitly on review
// mutations; business entries rely on a short TTL, so a recomputed rating
// becomes visible within one TTL at the latest.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	businessReviewsPrefix = "otosanayi:reviews:business:"
	businessPrefix        = "otosanayi:business:"
	businessListPrefix    = "otosanayi:businesses:"
)

// Cache wraps a Redis client with JSON serialization and key conventions.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache with the given entry TTL.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// BusinessReviewsKey is the cache key for one page of a business's reviews.
func BusinessReviewsKey(businessID string, page, perPage int) string {
	return fmt.Sprintf("%s%s:%d:%d", businessReviewsPrefix, businessID, page, perPage)
}

// BusinessKey is the cache key for a single business, by id or slug.
func BusinessKey(idOrSlug string) string {
	return businessPrefix + idOrSlug
}

// BusinessListKey is the cache key for one page of the business directory.
func BusinessListKey(page, perPage int) string {
	return fmt.Sprintf("%s%d:%d", businessListPrefix, page, perPage)
}

// Get loads the value stored under key into dest. It returns false on a
// cache miss and never fails the caller on a degraded Redis; read errors
// are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt, dropping",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// Set stores value under key with the configured TTL. Failures are logged,
// not returned; the cache is an optimization.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// InvalidateBusinessReviews removes every cached review page of a business.
func (c *Cache) InvalidateBusinessReviews(ctx context.Context, businessID string) {
	c.deleteByPrefix(ctx, businessReviewsPrefix+businessID+":")
}

func (c *Cache) deleteByPrefix(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WarnContext(ctx, "cache scan failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
	}
}
