package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/query"
	"ledger/internal/storage"
)

// Publisher announces appended expenses to downstream consumers
type Publisher interface {
	PublishExpenseAdded(ctx context.Context, e core.Expense) error
	Close() error
}

// ExpenseInput is the raw text of an add-expense form
type ExpenseInput struct {
	Name     string
	Date     string
	Category string
	Amount   string
}

// LedgerService orchestrates the in-memory ledger, its store and the optional
// event publisher. Views are recomputed from the ledger on every call.
type LedgerService struct {
	store     storage.Store
	publisher Publisher
	logger    *slog.Logger
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(store storage.Store, publisher Publisher, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.With(log.FieldComponent, log.ComponentLedger),
	}
}

// Open loads the persisted ledger. A missing or unreadable store yields an
// empty ledger.
func (s *LedgerService) Open(ctx context.Context) *core.Ledger {
	records := s.store.Load(ctx)
	s.logger.InfoContext(ctx, "Ledger loaded",
		log.NewFields().WithOperation(log.OpLoad).WithRecords(len(records)).ToSlice()...)
	return core.NewLedger(records)
}

// AddExpense validates in, appends it to l and persists the full ledger.
// A validation failure leaves l untouched and is returned. Save and publish
// failures are logged only; the in-memory append stands.
func (s *LedgerService) AddExpense(ctx context.Context, l *core.Ledger, in ExpenseInput) (core.Expense, error) {
	e, err := core.NewExpense(in.Name, in.Date, in.Category, in.Amount)
	if err != nil {
		s.logger.DebugContext(ctx, "Expense rejected",
			log.NewFields().WithOperation(log.OpValidate).WithErrorType(log.ErrorTypeValidation).WithError(err).ToSlice()...)
		return core.Expense{}, err
	}

	l.Add(e)
	s.persist(ctx, l, log.OpAppend)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseAdded(ctx, e); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish expense added event",
				log.NewFields().WithOperation(log.OpPublish).WithErrorType(log.ErrorTypeNetwork).WithError(err).WithExpense(e).ToSlice()...)
		}
	}

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpAppend).WithExpense(e).WithRecords(l.Len()).ToSlice()...)
	return e, nil
}

// RemoveExpense deletes the record at index and persists the ledger.
func (s *LedgerService) RemoveExpense(ctx context.Context, l *core.Ledger, index int) (core.Expense, error) {
	e, err := l.Remove(index)
	if err != nil {
		return core.Expense{}, fmt.Errorf("remove expense %d: %w", index, err)
	}
	s.persist(ctx, l, log.OpRemove)

	s.logger.InfoContext(ctx, "Expense removed",
		log.NewFields().WithOperation(log.OpRemove).WithExpense(e).WithRecords(l.Len()).ToSlice()...)
	return e, nil
}

// Views derives the records, total and category breakdown for period.
func (s *LedgerService) Views(l *core.Ledger, period query.Period) core.Summary {
	sum := query.Summarize(l.Records(), period)
	s.logger.Debug("Summary computed", log.FieldPeriod, period.String(), log.FieldRecords, len(sum.Records))
	return sum
}

func (s *LedgerService) persist(ctx context.Context, l *core.Ledger, op string) {
	if err := s.store.Save(ctx, l.Records()); err != nil {
		s.logger.ErrorContext(ctx, "Ledger not persisted, memory and storage diverge",
			log.NewFields().WithOperation(op).WithErrorType(log.ErrorTypeStorage).WithError(err).WithRecords(l.Len()).ToSlice()...)
	}
}

// Close releases the publisher, if any.
func (s *LedgerService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
