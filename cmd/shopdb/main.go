// shopdb manages the shop database schema and demo data.
//
// Usage:
//
//	shopdb                   migrate missing tables
//	shopdb --recreate        drop everything and rebuild the schema
//	shopdb --seed            load the demo dataset (idempotent)
//	shopdb --config shop.toml --recreate --seed
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/leathershop/backend/internal/domain/shared/valueobject"
	"github.com/leathershop/backend/internal/infrastructure/bootstrap"
	"github.com/leathershop/backend/internal/infrastructure/config"
	"github.com/leathershop/backend/internal/infrastructure/logger"
	"github.com/leathershop/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		recreate   bool
		seed       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./shop.toml)")
	flag.BoolVar(&recreate, "recreate", false, "Drop all tables and rebuild the schema")
	flag.BoolVar(&seed, "seed", false, "Load the demo dataset")
	flag.Parse()

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Open the database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Error("Failed to open database",
			zap.String("path", cfg.Database.Path),
			zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Database opened", zap.String("path", cfg.Database.Path))

	if recreate {
		if err := bootstrap.Recreate(db.DB); err != nil {
			log.Error("Failed to recreate schema", zap.Error(err))
			os.Exit(1)
		}
		log.Info("Schema recreated")
	} else {
		if err := bootstrap.Migrate(db.DB); err != nil {
			log.Error("Failed to migrate schema", zap.Error(err))
			os.Exit(1)
		}
		log.Info("Schema migrated")
	}

	if seed {
		if err := bootstrap.Seed(db.DB, log, valueobject.Currency(cfg.Shop.Currency)); err != nil {
			log.Error("Failed to seed demo data", zap.Error(err))
			os.Exit(1)
		}
		log.Info("Demo data seeded")
	}
}
