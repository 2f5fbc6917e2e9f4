package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ledger/internal/cli"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentCLI)

	ctx := context.Background()

	store := cli.InitBackend(logger, cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}()

	var publisher services.Publisher
	if client := cli.InitPublisher(ctx, logger, cfg); client != nil {
		publisher = client
	}

	svc := services.NewLedgerService(store.Store, publisher, logger.Logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close ledger service", log.FieldError, err)
		}
	}()

	app := &cli.App{
		Service: svc,
		Ledger:  svc.Open(ctx),
		Out:     os.Stdout,
	}

	if len(os.Args) > 1 && os.Args[1] == "export" {
		sheets, err := cli.InitSheets(ctx, logger, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			return 1
		}
		if sheets != nil {
			app.Exporter = sheets
		}
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		var verr *core.ValidationError
		switch {
		case errors.As(err, &verr):
			fmt.Fprintf(os.Stderr, "rejected: %v\n", verr)
		case errors.Is(err, cli.ErrUsage):
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 2
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
