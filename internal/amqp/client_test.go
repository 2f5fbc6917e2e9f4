package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{70, 30 * time.Second}, // no shift overflow
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection error", errors.New("connection closed"), true},
		{"EOF error", errors.New("unexpected EOF"), true},
		{"broken pipe error", errors.New("broken pipe"), true},
		{"closed network connection error", errors.New("use of closed network connection"), true},
		{"amqp closed", fmt.Errorf("open channel: %w", amqp091.ErrClosed), true},
		{"access refused", errors.New("Exception (403) Reason: \"ACCESS_REFUSED\""), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestSettle(t *testing.T) {
	e := core.Expense{Name: "Hotel", Date: "2024-06-01", Category: core.Travel, Amount: decimal.RequireFromString("120.5")}
	body, err := NewExpenseAddedMessage(e).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	t.Run("success acks", func(t *testing.T) {
		ack := &fakeAck{}
		var got core.Expense
		settle(context.Background(), ack, body, func(_ context.Context, m *ExpenseAddedMessage) error {
			var err error
			got, err = m.Expense()
			return err
		})
		if !ack.acked || ack.nacked {
			t.Fatalf("expected ack, got %+v", ack)
		}
		if !got.Equal(e) {
			t.Fatalf("handler saw %+v, want %+v", got, e)
		}
	})

	t.Run("handler failure requeues", func(t *testing.T) {
		ack := &fakeAck{}
		settle(context.Background(), ack, body, func(context.Context, *ExpenseAddedMessage) error {
			return errors.New("sheets unavailable")
		})
		if !ack.nacked || !ack.requeue {
			t.Fatalf("expected nack with requeue, got %+v", ack)
		}
	})

	t.Run("malformed body is dropped", func(t *testing.T) {
		ack := &fakeAck{}
		called := false
		settle(context.Background(), ack, []byte("{not json"), func(context.Context, *ExpenseAddedMessage) error {
			called = true
			return nil
		})
		if called || !ack.nacked || ack.requeue {
			t.Fatalf("expected drop without handler call, got %+v called=%v", ack, called)
		}
	})
}

func TestNewExpenseAddedMessage(t *testing.T) {
	e := core.Expense{Name: "Cinema", Date: "2024-06-02", Category: core.Entertainment, Amount: decimal.NewFromInt(9)}
	a, b := NewExpenseAddedMessage(e), NewExpenseAddedMessage(e)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.Amount != "9" || a.Date != "2024-06-02" {
		t.Fatalf("unexpected message %+v", a)
	}

	if _, err := ExpenseAddedMessageFromJSON([]byte(`{"date":"2024-06-02"}`)); err == nil {
		t.Fatalf("expected error for message without id")
	}
	bad := &ExpenseAddedMessage{ID: "x", Amount: "lots"}
	if _, err := bad.Expense(); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
