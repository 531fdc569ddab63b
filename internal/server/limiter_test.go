package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/example/triptime/internal/server"
)

func limitedHandler(t *testing.T, cfg server.RateLimit) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := server.NewLimiter(client, cfg)
	require.NotNil(t, limiter)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return limiter.Middleware(ok), mr
}

func limitedGet(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLimiterAllowsWithinBurst(t *testing.T) {
	handler, _ := limitedHandler(t, server.RateLimit{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		rec := limitedGet(handler, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestLimiterRejectsOverBurst(t *testing.T) {
	handler, _ := limitedHandler(t, server.RateLimit{Rate: 1, Burst: 2})

	limitedGet(handler, "10.0.0.1:1234")
	limitedGet(handler, "10.0.0.1:1234")
	rec := limitedGet(handler, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLimiterTracksClientsSeparately(t *testing.T) {
	handler, _ := limitedHandler(t, server.RateLimit{Rate: 1, Burst: 1})

	require.Equal(t, http.StatusOK, limitedGet(handler, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, limitedGet(handler, "10.0.0.1:5678").Code)

	// A different client address gets its own bucket.
	require.Equal(t, http.StatusOK, limitedGet(handler, "10.0.0.2:1234").Code)
}

func TestLimiterHonorsForwardedFor(t *testing.T) {
	handler, _ := limitedHandler(t, server.RateLimit{Rate: 1, Burst: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same forwarded client from a different proxy address shares the bucket.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.7:9999"
	req2.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestLimiterDisabledWithoutClient(t *testing.T) {
	require.Nil(t, server.NewLimiter(nil, server.RateLimit{Rate: 1, Burst: 1}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.Nil(t, server.NewLimiter(client, server.RateLimit{}))

	var disabled *server.Limiter
	handler := disabled.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := limitedGet(handler, "10.0.0.1:1234")
	require.Equal(t, http.StatusOK, rec.Code)
}
