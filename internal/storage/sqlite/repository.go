// Package sqlite stores the ledger in a SQLite database with the same
// whole-ledger replace semantics as the flat file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"

	_ "modernc.org/sqlite"
)

type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: dbPath, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns all stored expenses in ledger order. Database failures yield an
// empty ledger; rows whose amount is not a number are skipped.
func (s *Store) Load(ctx context.Context) []core.Expense {
	records, skipped, err := s.list(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load ledger from SQLite, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldPath, s.path, log.FieldError, err)
		return []core.Expense{}
	}
	if skipped > 0 {
		s.logger.DebugContext(ctx, "Skipped malformed ledger rows", log.FieldPath, s.path, "skipped_lines", skipped)
	}
	return records
}

func (s *Store) list(ctx context.Context) ([]core.Expense, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, category, amount FROM expenses ORDER BY position`)
	if err != nil {
		return nil, 0, &storage.IOError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	records := []core.Expense{}
	skipped := 0
	for rows.Next() {
		var e core.Expense
		var amount string
		if err := rows.Scan(&e.Date, &e.Name, &e.Category, &amount); err != nil {
			return nil, 0, &storage.IOError{Op: "scan", Path: s.path, Err: err}
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			skipped++
			continue
		}
		e.Amount = d
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &storage.IOError{Op: "query", Path: s.path, Err: err}
	}
	return records, skipped, nil
}

// Save replaces every stored expense with records inside one transaction.
func (s *Store) Save(ctx context.Context, records []core.Expense) error {
	if err := s.replace(ctx, records); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger to SQLite",
			log.FieldOperation, log.OpSave, log.FieldPath, s.path, log.FieldRecords, len(records), log.FieldError, err)
		return &storage.IOError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.DebugContext(ctx, "Ledger saved to SQLite", log.FieldPath, s.path, log.FieldRecords, len(records))
	return nil
}

func (s *Store) replace(ctx context.Context, records []core.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, date, name, category, amount) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range records {
		if _, err := stmt.ExecContext(ctx, i, e.Date, e.Name, e.Category, core.FormatAmount(e.Amount)); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
