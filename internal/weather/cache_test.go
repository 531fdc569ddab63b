package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/example/triptime/internal/weather"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheServesSecondFetchFromRedis(t *testing.T) {
	series := weather.Series{{Time: time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC), Temp: 5, Prcp: 0.1}}
	source := &weather.Static{Series: series}
	cache := weather.NewCache(newRedisClient(t), source, time.Minute)

	first, err := cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
	require.NoError(t, err)
	require.Equal(t, series, first)
	require.Equal(t, 1, source.Calls)

	second, err := cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
	require.NoError(t, err)
	require.Equal(t, series, second)
	require.Equal(t, 1, source.Calls, "second fetch must hit the cache")
}

func TestCacheKeysByLocationAndRange(t *testing.T) {
	source := &weather.Static{Series: weather.Series{}}
	cache := weather.NewCache(newRedisClient(t), source, time.Minute)

	_, err := cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
	require.NoError(t, err)
	_, err = cache.Hourly(context.Background(), weather.Location{Latitude: 51.5, Longitude: -0.12}, rangeFrom, rangeTo)
	require.NoError(t, err)
	require.Equal(t, 2, source.Calls, "different locations must not share a cache entry")
}

func TestCachePassthroughWithoutClient(t *testing.T) {
	source := &weather.Static{Series: weather.Series{}}
	cache := weather.NewCache(nil, source, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
		require.NoError(t, err)
	}
	require.Equal(t, 3, source.Calls)
}

func TestCachePropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	source := &weather.Static{Err: boom}
	cache := weather.NewCache(newRedisClient(t), source, time.Minute)

	_, err := cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
	require.ErrorIs(t, err, boom)

	// Errors are not cached.
	source.Err = nil
	_, err = cache.Hourly(context.Background(), nyc, rangeFrom, rangeTo)
	require.NoError(t, err)
	require.Equal(t, 2, source.Calls)
}
