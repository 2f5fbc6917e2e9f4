package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/storage"
)

const (
	seenCapacity = 4096
	seenTTL      = 24 * time.Hour
)

// SheetsExporter is the spreadsheet side of the export
type SheetsExporter interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
	ReplaceAll(ctx context.Context, records []core.Expense) error
}

// ExportWorker mirrors ledger additions into a spreadsheet
type ExportWorker struct {
	sheets  SheetsExporter
	store   storage.Store
	seen    *cache.SeenSet
	metrics *metrics.ExportMetrics
	logger  *slog.Logger
}

// NewExportWorker creates a worker. store is only needed for full exports and
// may be nil, as may m.
func NewExportWorker(sheets SheetsExporter, store storage.Store, m *metrics.ExportMetrics, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{
		sheets:  sheets,
		store:   store,
		seen:    cache.NewSeenSet(seenCapacity, seenTTL),
		metrics: m,
		logger:  logger.With(log.FieldComponent, log.ComponentWorker),
	}
}

// HandleExpenseAdded appends the announced expense as a new sheet row.
// Redelivered messages already exported are acknowledged without a second row.
func (w *ExportWorker) HandleExpenseAdded(ctx context.Context, msg *amqp.ExpenseAddedMessage) error {
	if w.seen.Contains(msg.ID) {
		w.logger.InfoContext(ctx, "Skipping already exported message", log.FieldMessageID, msg.ID)
		w.metrics.ObserveMessage(metrics.ResultDuplicate)
		return nil
	}

	e, err := msg.Expense()
	if err != nil {
		// Requeueing cannot fix a bad amount.
		w.logger.ErrorContext(ctx, "Dropping message with invalid expense",
			append([]any{log.FieldMessageID, msg.ID},
				log.NewFields().WithErrorType(log.ErrorTypeValidation).WithError(err).ToSlice()...)...)
		w.metrics.ObserveMessage(metrics.ResultDropped)
		return nil
	}

	ref, err := w.sheets.AppendExpense(ctx, e)
	if err != nil {
		w.metrics.ObserveMessage(metrics.ResultFailed)
		return fmt.Errorf("append expense to sheets: %w", err)
	}
	w.seen.Mark(msg.ID)
	w.metrics.ObserveMessage(metrics.ResultExported)

	w.logger.InfoContext(ctx, "Exported expense",
		append([]any{log.FieldMessageID, msg.ID, log.FieldSheetsRef, ref},
			log.NewFields().WithOperation(log.OpExport).WithExpense(e).ToSlice()...)...)
	return nil
}

// ExportAll replaces the sheet contents with the whole stored ledger. Used at
// startup to recover from events missed while the worker was down.
func (w *ExportWorker) ExportAll(ctx context.Context) (int, error) {
	if w.store == nil {
		return 0, fmt.Errorf("export all: no store configured")
	}
	records := w.store.Load(ctx)
	if err := w.sheets.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("replace sheet contents: %w", err)
	}
	w.metrics.ObserveFullExport(len(records))

	w.logger.InfoContext(ctx, "Exported ledger",
		log.NewFields().WithOperation(log.OpExport).WithRecords(len(records)).ToSlice()...)
	return len(records), nil
}

// CleanSeen drops expired delivery markers and returns how many were removed.
func (w *ExportWorker) CleanSeen() int {
	return w.seen.CleanExpired()
}
