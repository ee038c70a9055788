package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/akeen90/nutrasafe-beta-sub001/config"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/database"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/reference"
)

func main() {
	source := flag.String("source", "", "snapshot file (.yaml/.json) or s3://bucket/key; defaults to the configured reference bucket")
	migrationsDir := flag.String("migrations", "migrations", "directory holding SQL migrations")
	dryRun := flag.Bool("dry-run", false, "validate the snapshot without writing it")
	flag.Parse()

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snap, origin, err := loadSnapshot(ctx, cfg, *source)
	if err != nil {
		log.Fatal("[SeedReference] Failed to load snapshot", "error", err)
	}
	if err := snap.Validate(); err != nil {
		log.Fatal("[SeedReference] Snapshot is invalid", "source", origin, "error", err)
	}
	log.Info("[SeedReference] Snapshot loaded",
		"source", origin,
		"version", snap.EffectiveVersion(),
		"additives", len(snap.Additives),
		"overrides", len(snap.Overrides),
		"ultra_processed", len(snap.UltraProcessed))

	if *dryRun {
		log.Info("[SeedReference] Dry run, nothing written")
		return
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("[SeedReference] Failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, *migrationsDir, log); err != nil {
		log.Fatal("[SeedReference] Failed to run migrations", "error", err)
	}

	version, err := reference.NewStore(db).Replace(ctx, snap, origin)
	if err != nil {
		log.Fatal("[SeedReference] Failed to store snapshot", "error", err)
	}
	log.Info("[SeedReference] Reference data replaced", "version", version)
}

// loadSnapshot reads the snapshot from a local file, an s3:// URI, or the configured bucket.
func loadSnapshot(ctx context.Context, cfg *config.Config, source string) (*reference.Snapshot, string, error) {
	if source == "" {
		if cfg.ReferenceBucket == "" {
			return nil, "", fmt.Errorf("no -source given and REFERENCE_BUCKET is not set")
		}
		source = fmt.Sprintf("s3://%s/%s", cfg.ReferenceBucket, cfg.ReferenceKey)
	}

	if bucket, key, ok := reference.ParseS3URI(source); ok {
		cfg.ReferenceBucket = bucket
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		snap, err := reference.NewS3Source(s3Cfg.Client, s3Cfg.BucketName).Fetch(ctx, key)
		return snap, source, err
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	snap, err := reference.DecodeSnapshot(source, f)
	return snap, source, err
}
