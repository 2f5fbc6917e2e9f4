package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/worker"
)

const cleanupInterval = time.Hour

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting ledger-worker", log.FieldOperation, log.OpStartup)

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	sheets, err := cli.InitSheets(parent, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	if sheets == nil {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	store := cli.InitBackend(logger, cfg)
	amqpClient := cli.DialConsumer(parent, logger, cfg)

	exportMetrics := metrics.NewExportMetrics()
	exportWorker := worker.NewExportWorker(sheets, store.Store, exportMetrics, logger.Logger)

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", exportMetrics.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", log.FieldError, err)
			}
		}()
	}

	ctx, done := cli.GracefulShutdown(parent, logger, 30*time.Second, func() {
		if metricsSrv != nil {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown error", log.FieldError, err)
			}
		}
		if err := amqpClient.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err)
		}
		if err := store.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	})

	// Rows queued while down are appended again after a full export
	if cfg.StartupExport {
		if n, err := exportWorker.ExportAll(ctx); err != nil {
			logger.Error("Startup export failed", log.FieldError, err)
		} else {
			logger.Info("Startup export completed", log.FieldRecords, n)
		}
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := exportWorker.CleanSeen(); n > 0 {
					logger.Debug("Expired delivery markers removed", "count", n)
				}
			}
		}
	}()

	go func() {
		if err := amqpClient.ConsumeExpenseAdded(ctx, exportWorker.HandleExpenseAdded); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
		cancel()
	}()

	cli.WaitForShutdown(ctx, done)
}
