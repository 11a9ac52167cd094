package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"trek-storefront/internal/config"
	"trek-storefront/internal/logging"
	"trek-storefront/internal/medusa"
	"trek-storefront/internal/seed"
)

func main() {
	var catalogPath string
	flag.StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML file (defaults to the embedded demo catalog)")
	flag.Parse()

	cfg, envLoaded := config.Load()
	logger, err := logging.New(cfg.Production())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("seed")
	if !envLoaded {
		logger.Debug("no .env file found, using process environment")
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	ctx := context.Background()
	client := medusa.New(medusa.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
	})
	admin, err := client.Admin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("admin login", zap.Error(err))
	}

	start := time.Now()
	res, err := seed.Apply(ctx, admin, catalog, logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	fmt.Printf("Seeded %d products in %s\n", len(res.ProductIDs), time.Since(start).Truncate(time.Millisecond))
	fmt.Printf("Publishable API key: %s\n", res.PublishableKey)
}

func loadCatalog(path string) (seed.Catalog, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return seed.Catalog{}, err
	}
	return seed.ParseCatalog(data)
}
