package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haulbooks/internal/amqp"
	"haulbooks/internal/cli"
	"haulbooks/internal/export"
	gsheet "haulbooks/internal/export/google"
	expmem "haulbooks/internal/export/memory"
	"haulbooks/internal/log"
	"haulbooks/internal/worker"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWorker)
	cli.LoadEnvFile()

	logger.Info("Starting haulbooks-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if cleanup != nil {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	}()

	// Pick the export sink. Without a spreadsheet configured the worker
	// still drains the queue so messages do not pile up unacked.
	var sink export.SummaryWriter
	if cfg.ExportEnabled() {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets export sink initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		sink = expmem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, using in-memory sink")
	}

	exportWorker := worker.NewExportWorker(store, sink)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// On startup, re-export every stored week in case messages were
	// missed while the worker was down.
	logger.Info("Performing startup export check...")
	if err := exportWorker.ExportUserWeeks(ctx, cfg.UserID); err != nil {
		logger.Error("Startup export check failed", log.FieldError, err)
		// Don't exit - continue with normal operation
	}

	go func() {
		handler := func(msg *amqp.WeekSyncMessage) error {
			return exportWorker.HandleWeekSync(ctx, msg)
		}
		if err := amqpClient.ConsumeWeekSync(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
			cancel()
		}
	}()

	// Periodic full re-export catches any messages dropped between
	// startup checks.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := exportWorker.ExportUserWeeks(ctx, cfg.UserID); err != nil {
					logger.Error("Periodic export failed", log.FieldError, err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
