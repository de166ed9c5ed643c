// Package app wires together all dependencies and runs the storefront service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NozadzeJaba/restorani/internal/basket"
	"github.com/NozadzeJaba/restorani/internal/catalog"
	"github.com/NozadzeJaba/restorani/internal/client"
	"github.com/NozadzeJaba/restorani/internal/config"
	handler "github.com/NozadzeJaba/restorani/internal/handler/http"
	"github.com/NozadzeJaba/restorani/internal/session"
	"github.com/NozadzeJaba/restorani/internal/view"
	"github.com/NozadzeJaba/restorani/pkg/health"
	"github.com/NozadzeJaba/restorani/pkg/httpclient"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client for session state.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Outbound HTTP client for the restaurant API, optionally behind a
	// circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = time.Duration(cfg.RemoteTimeout) * time.Second
	httpCfg.MaxRetries = cfg.RemoteMaxRetries

	var doer client.HTTPDoer = httpclient.New(httpCfg)
	if cfg.BreakerEnabled {
		doer = httpclient.NewCircuitBreakerClient(
			httpclient.New(httpCfg),
			httpclient.DefaultCircuitBreakerConfig("restaurant-api"),
			logger,
		)
	}
	restaurant := client.New(doer, cfg.RestaurantAPIURL, logger)
	logger.Info("restaurant API client initialized",
		slog.String("base_url", cfg.RestaurantAPIURL),
		slog.Bool("breaker", cfg.BreakerEnabled),
	)

	// Build the dependency graph.
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour
	sessions := session.NewStore(rdb, sessionTTL)
	catalogService := catalog.NewService(restaurant, logger)
	basketService := basket.NewService(restaurant, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	categories, err := cfg.Categories()
	if err != nil {
		return nil, err
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	storefront := handler.NewStorefrontHandler(
		catalogService,
		basketService,
		sessions,
		renderer,
		categories,
		logger,
	)
	router := handler.NewRouter(storefront, healthHandler, logger, sessionTTL)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
