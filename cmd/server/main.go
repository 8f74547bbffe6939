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

	"github.com/iliyamo/combat-tiers/internal/config"
	"github.com/iliyamo/combat-tiers/internal/database"
	"github.com/iliyamo/combat-tiers/internal/handler"
	"github.com/iliyamo/combat-tiers/internal/repository"
	"github.com/iliyamo/combat-tiers/internal/repository/memory"
	"github.com/iliyamo/combat-tiers/internal/router"
	"github.com/iliyamo/combat-tiers/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Env), slog.String("storage", cfg.StorageType))

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open player store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	// Redis is optional; without it cache and rate limiting are off.
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logger.Warn("redis unavailable; cache and rate limiting disabled", slog.Any("error", err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		logger.Info("redis connected")
	}

	var events handler.EventPublisher
	if ev := config.LoadEventsConfig(); ev.Enabled {
		events = &service.AMQPPublisher{URL: ev.URL, Queue: ev.Queue}
		logger.Info("player events enabled", slog.String("queue", ev.Queue))
	} else {
		events = service.NopPublisher{}
	}

	players := handler.NewPlayerHandler(store, events, logger)
	e := router.New(players, router.Options{
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", slog.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		return
	}
	logger.Info("server stopped")
}

// openStore selects the backing store for STORAGE_TYPE and returns a close
// function for it.
func openStore(cfg config.Config, logger *slog.Logger) (repository.PlayerStore, func(), error) {
	if cfg.StorageType == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), func() {}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("database schema ensured")
	}
	logger.Info("database connection established", slog.String("host", cfg.DBHost), slog.String("name", cfg.DBName))
	return repository.NewPlayerRepo(db), closeDB, nil
}
