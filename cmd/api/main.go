// Package main provides the entry point for the financial products API server
// @title Financial Products API
// @version 1.0
// @description Catalog of bank financial products with revision tracking.
// @host localhost:3002
// @BasePath /bp
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"financialproducts/internal/api/handlers"
	"financialproducts/internal/api/routes"
	"financialproducts/internal/api/server"
	"financialproducts/internal/config"
	"financialproducts/internal/database"
	"financialproducts/internal/logger"
	"financialproducts/internal/repository"
	"financialproducts/internal/repository/cache"
	"financialproducts/internal/repository/memory"
	"financialproducts/internal/repository/postgres"
	"financialproducts/internal/review"
	"financialproducts/internal/validation"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	envErr := godotenv.Load(*envFile)

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		logger.L().Fatal("config.load_failed", zap.Error(err))
	}

	logger.Init("financial-products-api", cfg.Log.Env, cfg.Log.Level)
	defer logger.Sync()
	log := logger.L()

	if envErr != nil && *envFile == ".env" {
		log.Warn("config.env_file_missing", zap.String("path", *envFile), zap.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("storage.open_failed", zap.String("storage", cfg.Storage), zap.Error(err))
	}
	defer closeStorage()

	// Initialize validators
	validation.Initialize()

	scheduler := review.NewScheduler(repo, review.Config{
		Schedule: cfg.Review.Schedule,
		Enabled:  cfg.Review.Enabled,
	}, log.Named("review"))

	reviewDone := make(chan struct{})
	go func() {
		defer close(reviewDone)
		if err := scheduler.Start(ctx); err != nil {
			log.Error("review.start_failed", zap.Error(err))
		}
	}()

	var runner handlers.ReviewRunner = scheduler
	router, stopRoutes := routes.SetupRoutes(cfg, repo, runner, log.Named("http"))
	defer stopRoutes()

	srv, err := server.New(cfg, router, log)
	if err != nil {
		log.Fatal("server.init_failed", zap.Error(err))
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server.failed", zap.Error(err))
		}
		stop()
	case <-ctx.Done():
	}

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server.forced_shutdown", zap.Error(err))
	}
	<-reviewDone

	log.Info("server.exited")
}

// openStorage builds the product repository selected by STORAGE, wrapped by the
// redis read cache when REDIS_ADDR is set
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.ProductRepository, func(), error) {
	var (
		repo    repository.ProductRepository
		closers []func()
	)

	switch cfg.Storage {
	case config.StorageMemory:
		repo = memory.NewProductRepository()
	default:
		db, err := database.SetupDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		repo = postgres.NewProductRepository(db)
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("cache.unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		closers = append(closers, func() { rdb.Close() })
		repo = cache.NewProductRepository(repo, rdb, cfg.Redis.TTL, log.Named("cache"))
	}

	log.Info("storage.ready",
		zap.String("storage", cfg.Storage),
		zap.Bool("cache", cfg.Redis.Enabled()),
	)

	return repo, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
