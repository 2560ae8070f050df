package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"roomly/internal/domain/listing"
	"roomly/internal/domain/review"
)

// RatingCache is a read-through cache in front of a RatingAggregator.
// Cache errors degrade to the underlying source, never to the caller.
type RatingCache struct {
	client *redis.Client
	next   review.RatingAggregator
	ttl    time.Duration
	logger *slog.Logger
}

func NewRatingCache(client *redis.Client, next review.RatingAggregator, ttl time.Duration, logger *slog.Logger) *RatingCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RatingCache{client: client, next: next, ttl: ttl, logger: logger}
}

type cachedSummary struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

func (c *RatingCache) Summary(ctx context.Context, id listing.ID) (review.RatingSummary, error) {
	key := c.key(id)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedSummary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return review.RatingSummary{Average: cached.Average, Count: cached.Count}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.warn("rating cache read failed", id, err)
	}

	summary, err := c.next.Summary(ctx, id)
	if err != nil {
		return review.RatingSummary{}, err
	}

	raw, err = json.Marshal(cachedSummary{Average: summary.Average, Count: summary.Count})
	if err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.warn("rating cache write failed", id, err)
		}
	}
	return summary, nil
}

// Invalidate drops the cached aggregate for a listing, typically after a
// review write elsewhere in the system.
func (c *RatingCache) Invalidate(ctx context.Context, id listing.ID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *RatingCache) key(id listing.ID) string {
	return "ratings:listing:" + string(id)
}

func (c *RatingCache) warn(msg string, id listing.ID, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, slog.String("listing_id", string(id)), slog.String("error", err.Error()))
}

var _ review.RatingAggregator = (*RatingCache)(nil)
