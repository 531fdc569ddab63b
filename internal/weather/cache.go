package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Hour

// Cache decorates a Source with a redis-backed series cache keyed by
// location and date range. Concurrent pipeline invocations would otherwise
// each re-fetch the same series from the upstream provider. A nil redis
// client makes the cache a passthrough, and redis failures degrade to the
// wrapped source rather than failing the pipeline.
type Cache struct {
	client redis.Cmdable
	source Source
	ttl    time.Duration
}

// NewCache wraps source with a cache using the given client and TTL.
func NewCache(client *redis.Client, source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c := &Cache{source: source, ttl: ttl}
	if client != nil {
		c.client = client
	}
	return c
}

// Hourly serves the series from cache when present, fetching and storing it
// otherwise.
func (c *Cache) Hourly(ctx context.Context, loc Location, from, to time.Time) (Series, error) {
	if c.client == nil {
		return c.source.Hourly(ctx, loc, from, to)
	}

	key := cacheKey(loc, from, to)
	if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var series Series
		if err := json.Unmarshal(cached, &series); err == nil {
			return series, nil
		}
	}

	series, err := c.source.Hourly(ctx, loc, from, to)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(series); err == nil {
		// Best effort: a failed write only costs a future re-fetch.
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return series, nil
}

func cacheKey(loc Location, from, to time.Time) string {
	return fmt.Sprintf("weather:%.4f:%.4f:%s:%s",
		loc.Latitude, loc.Longitude, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
