package server

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit configures the token bucket: Rate tokens per second refill,
// Burst bucket capacity.
type RateLimit struct {
	Rate  float64
	Burst float64
}

// Limiter applies a per-client token bucket backed by redis, so the limit
// holds across service replicas. Each pipeline invocation is expensive
// (weather fetch plus model work), which is why the surface is limited at
// all.
type Limiter struct {
	client redis.Cmdable
	cfg    RateLimit
	script *redis.Script
}

// NewLimiter builds a Limiter; a nil client or non-positive rate disables it.
func NewLimiter(client *redis.Client, cfg RateLimit) *Limiter {
	if client == nil || cfg.Rate <= 0 || cfg.Burst <= 0 {
		return nil
	}
	return &Limiter{client: client, cfg: cfg, script: redis.NewScript(tokenBucketLua)}
}

// Middleware enforces the limit, answering 429 with Retry-After when a
// client is over budget.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter, err := l.allow(r.Context(), clientIdentifier(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "rate limit error")
			return
		}
		if !allowed {
			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retryAfter)))
			}
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) allow(ctx context.Context, identifier string) (bool, time.Duration, error) {
	key := "rl:" + identifier
	result, err := l.script.Run(ctx, l.client, []string{key},
		time.Now().UnixMilli(), l.cfg.Rate, l.cfg.Burst).Slice()
	if err != nil {
		return false, 0, err
	}
	allowed, _ := result[0].(int64)
	waitMs, _ := result[1].(int64)
	return allowed == 1, time.Duration(waitMs) * time.Millisecond, nil
}

func clientIdentifier(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func retrySeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

const tokenBucketLua = `
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local capacity = tonumber(ARGV[3])

local state = redis.call('HMGET', key, 'tokens', 'timestamp')
local tokens = tonumber(state[1])
local last = tonumber(state[2])

if tokens == nil then
  tokens = capacity
end
if last == nil then
  last = now_ms
end

local delta = now_ms - last
if delta < 0 then
  delta = 0
end
tokens = math.min(capacity, tokens + delta * rate / 1000)

local allowed = 0
local wait_ms = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  wait_ms = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call('HMSET', key, 'tokens', tokens, 'timestamp', now_ms)
redis.call('PEXPIRE', key, math.ceil(capacity / rate * 1000))

return {allowed, wait_ms}
`
