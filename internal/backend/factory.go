package backend

import (
	"fmt"
	"log/slog"

	"ledger/internal/storage/flatfile"
	"ledger/internal/storage/memory"
	"ledger/internal/storage/sqlite"
)

// Factory creates ledger stores based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend returns the store described by config
func (f *Factory) CreateBackend(config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config), nil
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createFileBackend(config Config) *BackendResult {
	store := flatfile.New(config.LedgerFile, f.logger)

	f.logger.Debug("Initialized file backend", "path", store.Path())

	return &BackendResult{Store: store}
}

func (f *Factory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := sqlite.NewStore(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Debug("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *Factory) createMemoryBackend() *BackendResult {
	f.logger.Debug("Initialized memory backend")

	return &BackendResult{Store: memory.New(nil)}
}
