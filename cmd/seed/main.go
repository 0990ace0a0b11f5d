package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/seed"
)

func main() {
	file := flag.String("file", "", "seed catalog YAML (defaults to the embedded demo catalog)")
	reset := flag.Bool("reset", false, "delete existing orders, products, categories and users first")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "storefront-seed")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	var catalog *seed.Catalog
	if *file != "" {
		catalog, err = seed.LoadCatalog(*file)
	} else {
		catalog, err = seed.DefaultCatalog()
	}
	if err != nil {
		zapLogger.Fatal("loading seed catalog", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer mysql.Close(db)

	if err := mysql.Migrate(db); err != nil {
		zapLogger.Fatal("migrating database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(db, zapLogger)
	if *reset {
		if err := seeder.Reset(ctx); err != nil {
			zapLogger.Fatal("resetting database", zap.Error(err))
		}
	}
	if _, err := seeder.Apply(ctx, catalog); err != nil {
		zapLogger.Fatal("applying seed", zap.Error(err))
	}
}
