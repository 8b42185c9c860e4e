package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/coffee-shop-api/internal/auth"
	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/database"
	"github.com/iliyamo/coffee-shop-api/internal/handler"
	"github.com/iliyamo/coffee-shop-api/internal/logging"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
	"github.com/iliyamo/coffee-shop-api/internal/router"
	"github.com/iliyamo/coffee-shop-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting coffee-shop-api", slog.String("env", cfg.Env))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Error("mysql connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	if cfg.DB.Migrate {
		if err := database.Migrate(rootCtx, db); err != nil {
			log.Error("migrations failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		log.Error("redis config", slog.Any("error", err))
		os.Exit(1)
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.Error("cache config", slog.Any("error", err))
		os.Exit(1)
	}
	rateCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Error("rate limit config", slog.Any("error", err))
		os.Exit(1)
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and response cache disabled", slog.String("addr", redisCfg.Address()))
	} else {
		defer rdb.Close()
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	customers := repository.NewCustomerRepo(db)
	products := repository.NewProductRepo(db)
	tokens := auth.NewManager(auth.Config{
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	}, customers)
	auth.StartRefreshJanitor(rootCtx, customers, log, cfg.Auth.SweepInterval)

	publisher := service.NewOrderPublisher(cfg.Queue, log, m)
	defer publisher.Close()
	if cfg.Queue.Consume {
		go func() {
			if err := queue.StartOrderConsumer(rootCtx, cfg.Queue, log, m); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order consumer stopped", slog.Any("error", err))
			}
		}()
	}

	common := handler.Common{Log: log, Timeout: cfg.RequestTimeout, MaxLimit: cfg.Pagination.MaxLimit}
	invalidate := func(ctx context.Context) error {
		return middleware.InvalidateCache(ctx, rdb, cacheCfg.Prefix)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.RegisterRoutes(e, router.Deps{
		Log:          log,
		Auth:         tokens,
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		DB:           db,
		Redis:        rdb,
		Cache:        cacheCfg,
		RateLimit:    rateCfg,
		Customers:    handler.NewCustomerHandler(common, customers, tokens, cfg.Auth.BcryptCost),
		Products:     handler.NewProductHandler(common, products, invalidate),
		OrderItems:   handler.NewOrderItemHandler(common, repository.NewOrderItemRepo(db), products),
		Orders:       handler.NewOrderHandler(common, repository.NewOrderRepo(db), publisher),
		Employees:    handler.NewEmployeeHandler(common, repository.NewEmployeeRepo(db)),
		Inventory:    handler.NewInventoryHandler(common, repository.NewInventoryRepo(db)),
		Reservations: handler.NewReservationHandler(common, repository.NewReservationRepo(db)),
		Reviews:      handler.NewReviewHandler(common, repository.NewReviewRepo(db)),
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http listening", slog.String("addr", cfg.Addr()))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			log.Error("http serve failed", slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", slog.Any("error", err))
	}
	log.Info("stopped")
}
