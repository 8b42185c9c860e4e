package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coffee-shop-api/internal/config"
)

// bucketScript refills and takes one token atomically using the Redis clock,
// so every API instance agrees on elapsed time. It returns
// {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_ms = tonumber(ARGV[4])

	local t = redis.call('TIME')
	local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)

	local tokens = tonumber(redis.call('HGET', key, 'tokens'))
	local stamp = tonumber(redis.call('HGET', key, 'stamp'))
	if tokens == nil or stamp == nil then
		tokens, stamp = capacity, now
	end

	local steps = math.floor(math.max(0, now - stamp) / interval_ms)
	if steps > 0 then
		tokens = math.min(capacity, tokens + steps * refill)
		stamp = stamp + steps * interval_ms
	end

	local allowed, wait = 0, 0
	if tokens >= 1 then
		allowed, tokens = 1, tokens - 1
	else
		wait = math.max(0, interval_ms - (now - stamp))
	end

	redis.call('HSET', key, 'tokens', tokens, 'stamp', stamp)
	redis.call('PEXPIRE', key, ttl_ms)
	return { allowed, tokens, wait }
`)

// bucketResult is one decision of the token bucket.
type bucketResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

func decodeBucket(vals []int64) (bucketResult, bool) {
	if len(vals) != 3 {
		return bucketResult{}, false
	}
	return bucketResult{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, true
}

// retrySeconds rounds a wait up to whole seconds for Retry-After.
func retrySeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// NewTokenBucket limits requests with a Redis-backed token bucket keyed by
// cfg.KeyStrategy. Redis failures let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	log = log.With(slog.String("component", "ratelimit"))
	limit := strconv.Itoa(cfg.Capacity)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
				cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), cfg.TTL.Milliseconds(),
			).Int64Slice()
			if err != nil {
				log.Warn("token bucket unavailable", slog.String("key", key), slog.Any("error", err))
				return next(c)
			}
			res, ok := decodeBucket(vals)
			if !ok {
				log.Warn("unexpected token bucket reply", slog.String("key", key), slog.Any("reply", vals))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if res.Allowed {
				return next(c)
			}

			secs := retrySeconds(res.RetryAfter)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				log.Info("request throttled", slog.String("key", key), slog.Duration("retry_after", res.RetryAfter))
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"status":      "error",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// buildRateKey joins the parts named by the strategy, e.g. "ip_route" or
// "ip_user_route". Unknown parts are skipped; an empty result falls back to ip.
// The user part is only meaningful behind the session gate.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	strategy := strings.ToLower(strings.TrimSpace(cfg.KeyStrategy))
	if strategy == "" {
		strategy = "ip_user_route"
	}

	parts := []string{cfg.Prefix}
	for _, name := range strings.Split(strategy, "_") {
		switch name {
		case "ip":
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			parts = append(parts, "ip", ip)
		case "user":
			uid := "anon"
			if p, ok := PrincipalFrom(c); ok {
				uid = strconv.FormatUint(p.ID, 10)
			}
			parts = append(parts, "user", uid)
		case "route":
			parts = append(parts, "route", c.Request().Method+" "+c.Path())
		}
	}
	if len(parts) == 1 {
		cfg.KeyStrategy = "ip"
		return buildRateKey(cfg, c)
	}
	return strings.Join(parts, ":")
}
