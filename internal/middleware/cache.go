package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coffee-shop-api/internal/config"
)

// Header set on every cacheable response: HIT when served from Redis, MISS
// otherwise.
const HeaderCache = "X-Cache"

// bodyRecorder tees the response to the client and keeps up to limit bytes
// of it. limit <= 0 keeps everything.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	keep := int64(len(b))
	if r.limit > 0 {
		keep = min(keep, max(0, r.limit-r.size))
	}
	r.buf.Write(b[:keep])
	r.size += int64(len(b))
	return r.ResponseWriter.Write(b)
}

// truncated reports whether part of the body was not kept.
func (r *bodyRecorder) truncated() bool {
	return r.limit > 0 && r.size > r.limit
}

// cachedResponse is what gets stored under a cache key.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

// cacheKeyFrom hashes the parts of the request named by cfg.KeyStrategy.
// Resolved path params always count, so /products/1 and /products/2 differ.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := c.Path()
	for _, name := range c.ParamNames() {
		route += "|" + name + "=" + c.Param(name)
	}

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{route}
	case "method_route":
		parts = []string{r.Method, route}
	case "method_route_query":
		parts = []string{r.Method, route, r.URL.RawQuery}
	default:
		parts = []string{route, r.URL.RawQuery}
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

// NewRedisCache serves cached copies of 200 responses for the configured
// methods. Requests that carry credentials bypass the cache entirely; attach
// it to public routes only.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	log = log.With(slog.String("component", "cache"))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[strings.ToUpper(req.Method)] || req.Header.Get(echo.HeaderAuthorization) != "" {
				return next(c)
			}
			ctx := req.Context()
			key := cacheKeyFrom(cfg, c)

			raw, err := rdb.Get(ctx, key).Bytes()
			switch {
			case err == nil:
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil {
					return replay(c, hit)
				}
				log.Warn("dropping undecodable cache entry", slog.String("key", key))
			case err != redis.Nil:
				log.Warn("cache read failed", slog.Any("error", err))
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = rec
			c.Response().Header().Set(HeaderCache, "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.truncated() {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del(HeaderCache)
			hdr.Del(echo.HeaderXRequestID)
			payload, err := json.Marshal(cachedResponse{Status: rec.status, Header: hdr, Body: rec.buf.Bytes()})
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				log.Warn("cache write failed", slog.Any("error", err))
			}
			return nil
		}
	}
}

func replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		if strings.EqualFold(k, echo.HeaderContentLength) {
			continue
		}
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	h.Set(HeaderCache, "HIT")
	c.Response().WriteHeader(hit.Status)
	_, err := c.Response().Write(hit.Body)
	return err
}

// InvalidateCache deletes every cached response under prefix. Write handlers
// call it after changing data that public listings expose.
func InvalidateCache(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, prefix+":*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
