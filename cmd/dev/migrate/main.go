package main

import (
	"context"

	"venue/pkg/config"
	"venue/pkg/db"
	"venue/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	// Uses DIRECT_URL if set.
	if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	// DSNs are never logged.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("runtime db open failed")
	}
	pool.Close()

	log.Info("migrations applied")
}
