package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// ExpenseAddedMessage announces an expense appended to the ledger. It carries
// the full record since the ledger has no stable row identifiers.
type ExpenseAddedMessage struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseAddedMessage creates a message for e with a fresh ID
func NewExpenseAddedMessage(e core.Expense) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		ID:        uuid.NewString(),
		Date:      e.Date,
		Name:      e.Name,
		Category:  e.Category,
		Amount:    core.FormatAmount(e.Amount),
		Timestamp: time.Now().UTC(),
	}
}

// Expense converts the message back into a ledger record.
func (m *ExpenseAddedMessage) Expense() (core.Expense, error) {
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("message %s amount %q: %w", m.ID, m.Amount, err)
	}
	return core.Expense{Name: m.Name, Date: m.Date, Category: m.Category, Amount: amount}, nil
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseAddedMessageFromJSON creates a message from JSON bytes
func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("message without id")
	}
	return &msg, nil
}
