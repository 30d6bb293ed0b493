package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"jeongsan/internal/amqp"
	"jeongsan/internal/config"
	applog "jeongsan/internal/log"
	"jeongsan/internal/mirror"
	"jeongsan/internal/mirror/google"
	"jeongsan/internal/records"
	"jeongsan/internal/settlement"
	"jeongsan/internal/storage"
	"jeongsan/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting jeongsan-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	defaults := records.Defaults{
		FundAmount:    cfg.FundAmount,
		FixedFromName: cfg.FixedTransferFrom,
		FixedToName:   cfg.FixedTransferTo,
		FixedAmount:   cfg.FixedTransferAmount,
	}

	// The worker always reads from SQLite; snapshots land there too.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, defaults)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			"error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var reportMirror mirror.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", "error", err)
			os.Exit(1)
		}
		reportMirror = client
		logger.Info("Google Sheets mirror initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Report mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	engine := settlement.NewEngine(repo, cfg.DirectCollector)
	recomputeWorker := worker.NewRecomputeWorker(engine, repo, repo, reportMirror)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumePeriodDirty(ctx, recomputeWorker.HandleDirtyMessage)
	})

	// Periodic backstop for missed messages.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.RecomputeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := recomputeWorker.RecomputeCurrent(ctx); err != nil {
					logger.Error("Periodic recompute failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
