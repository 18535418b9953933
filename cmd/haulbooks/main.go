package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"haulbooks/internal/amqp"
	"haulbooks/internal/cli"
	apphttp "haulbooks/internal/http"
	"haulbooks/internal/ledger"
	"haulbooks/internal/log"
)

func main() {
	logger := cli.SetupLogger(log.ComponentApp)
	cli.LoadEnvFile()

	logger.Info("Starting haulbooks")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	store, cleanup := cli.InitStore(ctx, logger, cfg)

	// AMQP is optional for the API server. Without it, weeks are still
	// tracked locally and the export worker simply never hears about them.
	var events ledger.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, week sync events disabled", log.FieldError, err)
	} else {
		events = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := ledger.NewService(store, events, cfg.UserID)
	if err := svc.Load(ctx); err != nil {
		logger.Error("Failed to load user data", log.FieldError, err, log.FieldUserID, cfg.UserID)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer stopCancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
		if cleanup != nil {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	logger.Info("Starting haulbooks server", "port", cfg.Port, "backend", cfg.DataBackend, log.FieldUserID, cfg.UserID)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
