// Package cli provides the process bootstrap shared by cmd/ledger and
// cmd/ledger-worker, and the text commands of cmd/ledger.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/log"
	gsheet "ledger/internal/sheets/google"
)

const amqpDialAttempts = 5

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		bootstrap := log.New(log.DefaultConfig())
		bootstrap.Error("Configuration validation failed",
			log.NewFields().WithOperation(log.OpStartup).WithErrorType(log.ErrorTypeConfiguration).WithError(err).ToSlice()...)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the configured store.
// Returns the backend or exits the process on failure.
func InitBackend(logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	blog := logger.WithComponent(log.ComponentBackend)
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		blog.Error("Invalid backend configuration", log.FieldError, err, log.FieldBackend, cfg.DataBackend,
			"valid_backends", backend.GetBackendTypeStrings())
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage).Slog()).CreateBackend(bcfg)
	if err != nil {
		blog.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	blog.Debug("Backend ready", log.FieldBackend, cfg.DataBackend)
	return result
}

// InitPublisher connects to the broker when AMQP_URL is set. A broker that
// cannot be reached only disables event publishing.
func InitPublisher(ctx context.Context, logger *log.Logger, cfg *config.Config) *amqp.Client {
	logger = logger.WithComponent(log.ComponentAMQP)
	if cfg.AMQPURL == "" {
		logger.Debug("AMQP disabled - no AMQP_URL provided")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.WarnContext(ctx, "AMQP unavailable, expense events will not be published",
			log.NewFields().WithOperation(log.OpStartup).WithErrorType(log.ErrorTypeNetwork).WithError(err).ToSlice()...)
		return nil
	}
	return client
}

// DialConsumer connects to the broker with retries.
// Returns the client or exits the process on failure.
func DialConsumer(ctx context.Context, logger *log.Logger, cfg *config.Config) *amqp.Client {
	logger = logger.WithComponent(log.ComponentAMQP)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required", log.FieldOperation, log.OpStartup)
		os.Exit(1)
	}
	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpDialAttempts)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	return client
}

// InitSheets creates the Google Sheets exporter when a spreadsheet is
// configured, returning nil otherwise.
func InitSheets(ctx context.Context, logger *log.Logger, cfg *config.Config) (*gsheet.Client, error) {
	logger = logger.WithComponent(log.ComponentSheets)
	if !cfg.SheetsEnabled() {
		logger.Debug("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
		return nil, nil
	}
	client, err := gsheet.NewFromConfig(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals or when parent
// is done, and a channel that signals when cleanup has finished.
func GracefulShutdown(parent context.Context, logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()
		cancel()

		select {
		case <-finished:
			logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup has run.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
