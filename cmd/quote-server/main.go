package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/selekti/landedcost/internal/api"
	"github.com/selekti/landedcost/internal/cache"
	"github.com/selekti/landedcost/internal/config"
	"github.com/selekti/landedcost/internal/database"
	"github.com/selekti/landedcost/internal/fetch"
	"github.com/selekti/landedcost/internal/metrics"
	"github.com/selekti/landedcost/internal/quote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	pricingCfg, err := config.LoadPricing()
	if err != nil {
		logger.Error("failed to load pricing tables", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Quote log is optional; without DATABASE_URL quotes are simply not
	// persisted.
	var store *database.Store
	if cfg.DatabaseURL != "" {
		store, err = database.New(ctx, database.Config{DSN: cfg.DatabaseURL})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("quote log enabled")
	}

	quoteCache, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	fetcher := fetch.New(fetch.Options{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})

	m := metrics.New()

	svc, err := quote.NewService(quote.Options{
		Config:  pricingCfg,
		Fetcher: fetcher,
		Cache:   quoteCache,
		Store:   store,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build quote service", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.NewHandlers(svc, logger), m, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// newCache picks Redis when configured and reachable, the in-process LRU
// otherwise. The returned func releases the backend.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, func()) {
	if cfg.Redis.Addr == "" {
		return cache.NewLRU(cfg.Cache.Size, cfg.Cache.TTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process cache", "addr", cfg.Redis.Addr, "error", err)
		client.Close()
		return cache.NewLRU(cfg.Cache.Size, cfg.Cache.TTL), func() {}
	}

	logger.Info("redis cache enabled", "addr", cfg.Redis.Addr)
	return cache.NewRedis(client, cfg.Cache.TTL), func() { client.Close() }
}
