package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/akeen90/nutrasafe-beta-sub001/config"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/cache"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/database"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(config.GetEnvironment().GinMode())

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("[Main] Failed to connect to database", "error", err)
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(db, migrationsDir, log); err != nil {
		log.Fatal("[Main] Failed to run migrations", "error", err)
	}

	// Redis is optional: without it results are cached in process and rate limiting is off.
	var redisClient *redis.Client
	var resultCache cache.ResultCache
	if client, err := database.NewRedisClient(cfg, log); err != nil {
		log.Warn("[Main] Redis unavailable, using in-memory cache", "error", err)
		resultCache = cache.NewMemoryCache(cfg.CacheTTL)
	} else {
		redisClient = client
		defer func() { _ = client.Close() }()
		resultCache = cache.NewRedisCache(client, "", cfg.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder := reference.NewHolder(reference.NewStore(db), nil)
	if version, _, err := holder.Reload(ctx); err != nil {
		if !errors.Is(err, reference.ErrNotSeeded) {
			log.Fatal("[Main] Failed to load reference data", "error", err)
		}
		log.Warn("[Main] Reference data not seeded, every analysis will be empty until seed_reference runs and /reference/reload is called")
	} else {
		log.Info("[Main] Reference data loaded", "version", version)
	}

	srv := server.New(cfg, server.Dependencies{
		DB:     db,
		Redis:  redisClient,
		Holder: holder,
		Cache:  resultCache,
	}, log)

	if err := srv.Run(ctx); err != nil {
		log.Error("[Main] Server error", "error", err)
		return
	}
	log.Info("[Main] Server stopped")
}
