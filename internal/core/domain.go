package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted textual form of an expense date.
const DateLayout = "2006-01-02"

const (
	Personal      = "Personal"
	Entertainment = "Entertainment"
	Travel        = "Travel"
	Necessary     = "Necessary"
)

type (
	// Expense is a single spending event. Date holds the raw YYYY-MM-DD text as
	// entered or loaded; use Time to get the calendar date.
	Expense struct {
		Name     string
		Date     string
		Category string
		Amount   decimal.Decimal
	}

	// ValidationError reports a rejected field at construction time.
	ValidationError struct {
		Field string
		Value string
		Err   error
	}
)

var (
	ErrMissingDate     = errors.New("missing date")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrIndexOutOfRange = errors.New("index out of range")
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewExpense builds an Expense from raw user input. Name and category are kept
// verbatim; the date must be present and in DateLayout, the amount must be a
// finite non-negative decimal.
func NewExpense(name, date, category, amount string) (Expense, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return Expense{}, &ValidationError{Field: "date", Value: date, Err: ErrMissingDate}
	}
	if _, err := ParseDate(date); err != nil {
		return Expense{}, &ValidationError{Field: "date", Value: date, Err: ErrInvalidDate}
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, &ValidationError{Field: "amount", Value: amount, Err: err}
	}
	return Expense{Name: name, Date: date, Category: category, Amount: amt}, nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Time returns the parsed calendar date of the expense.
func (e Expense) Time() (time.Time, error) {
	return ParseDate(e.Date)
}

// Equal compares all four fields; amounts are compared by value.
func (e Expense) Equal(o Expense) bool {
	return e.Name == o.Name &&
		e.Date == o.Date &&
		e.Category == o.Category &&
		e.Amount.Equal(o.Amount)
}

// Categories returns the fixed set offered for new expenses, in display order.
func Categories() []string {
	return []string{Personal, Entertainment, Travel, Necessary}
}

// IsKnownCategory reports whether c is one of Categories. Storage and
// aggregation accept any string regardless.
func IsKnownCategory(c string) bool {
	for _, k := range Categories() {
		if k == c {
			return true
		}
	}
	return false
}
