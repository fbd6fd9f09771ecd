package main

// catalog-import loads a JSON catalogue (authors with their books and quotes, plus categories)
// into the configured database. Usage: catalog-import [catalog.json]

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookrating/database"
	"bookrating/database/seed"
	"bookrating/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	path := "catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	catalog, err := seed.ReadCatalog(path)
	if err != nil {
		logger.Error("catalog_read_failed", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog_loaded", "path", path, "authors", len(catalog.Authors), "categories", len(catalog.Categories))

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := seed.NewImporter(db, logger).Import(ctx, catalog)
	if err != nil {
		logger.Error("catalog_import_failed", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog_import_completed",
		"authors", summary.Authors,
		"books", summary.Books,
		"categories", summary.Categories,
		"quotes", summary.Quotes,
	)
}
