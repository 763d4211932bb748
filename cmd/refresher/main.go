// Command refresher reprices every portfolio with holdings once and exits.
// It exits 1 when the run could not complete and 2 when some users failed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/logger"
	"folio/internal/server"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()
	log := logger.Named("refresher")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		log.Fatalf("failed to create database manager: %v", err)
	}
	defer func() { _ = dbManager.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, closeProvider := server.NewQuoteProvider(ctx, cfg)
	defer closeProvider()

	svc := server.NewServices(cfg, dbManager.DB(), provider)
	result, err := svc.Refresher.Run(ctx)
	if err != nil {
		log.Errorw("refresh run failed", "error", err)
		os.Exit(1)
	}

	for _, userErr := range result.Errors {
		log.Warnw("reprice failed", "user_id", userErr.UserID, "reason", userErr.Reason)
	}
	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
