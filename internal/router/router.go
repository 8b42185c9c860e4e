// Package router wires handlers and middleware onto an Echo instance. Every
// API route lives under /api/v1; operational endpoints sit at the root.
package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
)

// Deps is everything RegisterRoutes needs. Redis may be nil, in which case
// rate limiting and response caching are disabled.
type Deps struct {
	Log       *slog.Logger
	Auth      middleware.Authenticator
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	DB        handler.Pinger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig

	Customers    *handler.CustomerHandler
	Products     *handler.ProductHandler
	OrderItems   *handler.OrderItemHandler
	Orders       *handler.OrderHandler
	Employees    *handler.EmployeeHandler
	Inventory    *handler.InventoryHandler
	Reservations *handler.ReservationHandler
	Reviews      *handler.ReviewHandler
}

// RegisterRoutes installs the global middleware chain and every route.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.Use(
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
				echo.HeaderAuthorization,
				middleware.HeaderRefreshToken,
			},
			ExposeHeaders: []string{middleware.HeaderAccessToken, echo.HeaderXRequestID},
		}),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
	)

	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1", middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
	api.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": echo.Map{"name": "coffee-shop-api"}})
	})

	session := middleware.Session(d.Auth, d.Log, d.Metrics)
	admin := middleware.RequireAdmin()

	registerCustomers(api, d.Customers, session, admin)
	registerProducts(api, d.Products, middleware.NewRedisCache(d.Cache, d.Redis, d.Log), session, admin)
	registerOrderItems(api, d.OrderItems, session, admin)
	registerOrders(api, d.Orders, session, admin)
	registerStaff(api, d.Employees, d.Inventory, session, admin)
	registerReservations(api, d.Reservations, session, admin)
	registerReviews(api, d.Reviews, session)
}
