package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/metrics"
	"ledger/internal/storage/memory"
)

type fakeSheets struct {
	appended []core.Expense
	replaced []core.Expense
	err      error
}

func (f *fakeSheets) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, e)
	return "Expenses!A1:D1", nil
}

func (f *fakeSheets) ReplaceAll(_ context.Context, records []core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.replaced = records
	return nil
}

func sampleExpense() core.Expense {
	return core.Expense{Name: "Ferry", Date: "2024-07-03", Category: core.Travel, Amount: decimal.RequireFromString("18.40")}
}

func TestHandleExpenseAdded(t *testing.T) {
	sheets := &fakeSheets{}
	m := metrics.NewExportMetrics()
	w := NewExportWorker(sheets, nil, m, nil)
	msg := amqp.NewExpenseAddedMessage(sampleExpense())

	require.NoError(t, w.HandleExpenseAdded(context.Background(), msg))
	require.Len(t, sheets.appended, 1)
	require.True(t, sheets.appended[0].Equal(sampleExpense()))

	// redelivery
	require.NoError(t, w.HandleExpenseAdded(context.Background(), msg))
	require.Len(t, sheets.appended, 1)

	expected := `
# HELP ledger_worker_messages_total expense.added messages handled, by result.
# TYPE ledger_worker_messages_total counter
ledger_worker_messages_total{result="duplicate"} 1
ledger_worker_messages_total{result="exported"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_worker_messages_total"))
}

func TestHandleExpenseAddedSheetsFailureIsRetryable(t *testing.T) {
	sheets := &fakeSheets{err: errors.New("quota exceeded")}
	w := NewExportWorker(sheets, nil, nil, nil)
	msg := amqp.NewExpenseAddedMessage(sampleExpense())

	require.Error(t, w.HandleExpenseAdded(context.Background(), msg))

	sheets.err = nil
	require.NoError(t, w.HandleExpenseAdded(context.Background(), msg))
	require.Len(t, sheets.appended, 1)
}

func TestHandleExpenseAddedDropsInvalidAmount(t *testing.T) {
	sheets := &fakeSheets{}
	w := NewExportWorker(sheets, nil, nil, nil)

	err := w.HandleExpenseAdded(context.Background(), &amqp.ExpenseAddedMessage{ID: "m-1", Date: "2024-07-03", Amount: "n/a"})
	require.NoError(t, err)
	require.Empty(t, sheets.appended)
}

func TestExportAll(t *testing.T) {
	sheets := &fakeSheets{}
	store := memory.New([]core.Expense{sampleExpense(), sampleExpense()})
	m := metrics.NewExportMetrics()
	w := NewExportWorker(sheets, store, m, nil)

	n, err := w.ExportAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, sheets.replaced, 2)

	_, err = NewExportWorker(sheets, nil, nil, nil).ExportAll(context.Background())
	require.Error(t, err)
}
