package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/logging"
)

func newCtx(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.5:4321"
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBuildRateKey(t *testing.T) {
	c := newCtx(http.MethodGet, "/api/v1/products")
	c.SetPath("/api/v1/products")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	assert.Equal(t, "rl:ip:10.0.0.5", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))

	SetPrincipal(c, bob)
	assert.Equal(t, "rl:user:9", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.5:route:GET /api/v1/products", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:10.0.0.5:user:9:route:GET /api/v1/products", buildRateKey(cfg, c))

	cfg.KeyStrategy = "bogus"
	assert.Equal(t, "rl:ip:10.0.0.5", buildRateKey(cfg, c))
}

func TestDecodeBucket(t *testing.T) {
	res, ok := decodeBucket([]int64{1, 4, 0})
	assert.True(t, ok)
	assert.Equal(t, bucketResult{Allowed: true, Remaining: 4}, res)

	res, ok = decodeBucket([]int64{0, 0, 750})
	assert.True(t, ok)
	assert.False(t, res.Allowed)
	assert.Equal(t, 750*time.Millisecond, res.RetryAfter)

	_, ok = decodeBucket([]int64{1})
	assert.False(t, ok)
}

func TestRetrySeconds(t *testing.T) {
	assert.Equal(t, 0, retrySeconds(0))
	assert.Equal(t, 1, retrySeconds(750*time.Millisecond))
	assert.Equal(t, 1, retrySeconds(time.Second))
	assert.Equal(t, 2, retrySeconds(1001*time.Millisecond))
}

func TestNewTokenBucket_DisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, logging.New(logging.EnvProd, "error"))
	called := false
	err := mw(func(c echo.Context) error { called = true; return nil })(newCtx(http.MethodGet, "/"))
	assert.NoError(t, err)
	assert.True(t, called)
}
