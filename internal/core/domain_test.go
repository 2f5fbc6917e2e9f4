package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewExpense(t *testing.T) {
	e, err := NewExpense("Coffee", "2024-03-10", Personal, "3.50")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Name != "Coffee" || e.Date != "2024-03-10" || e.Category != Personal {
		t.Fatalf("unexpected fields: %+v", e)
	}
	if !e.Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected amount: %s", e.Amount)
	}

	// name and category are not validated
	if _, err := NewExpense("", "2024-03-10", "Whatever, really", "0"); err != nil {
		t.Fatalf("expected free-form name/category to pass, got %v", err)
	}
}

func TestNewExpenseValidation(t *testing.T) {
	cases := []struct {
		date, amount string
		field        string
		want         error
	}{
		{"", "1", "date", ErrMissingDate},
		{"   ", "1", "date", ErrMissingDate},
		{"2024-13-01", "1", "date", ErrInvalidDate},
		{"10/03/2024", "1", "date", ErrInvalidDate},
		{"2024-03-10", "abc", "amount", ErrInvalidAmount},
		{"2024-03-10", "", "amount", ErrInvalidAmount},
		{"2024-03-10", "-5", "amount", ErrNegativeAmount},
		{"2024-03-10", "NaN", "amount", ErrInvalidAmount},
	}
	for i, tc := range cases {
		_, err := NewExpense("n", tc.date, Travel, tc.amount)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("case %d expected ValidationError on %s, got %v", i, tc.field, err)
		}
	}
}

func TestExpenseTime(t *testing.T) {
	e := Expense{Date: "2024-02-29"}
	tm, err := e.Time()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tm.Year() != 2024 || tm.Month() != 2 || tm.Day() != 29 {
		t.Fatalf("unexpected time %v", tm)
	}
	if _, err := (Expense{Date: "2023-02-29"}).Time(); err == nil {
		t.Fatalf("expected error for non-existent day")
	}
}

func TestCategories(t *testing.T) {
	if got := Categories(); len(got) != 4 || got[0] != Personal || got[3] != Necessary {
		t.Fatalf("unexpected categories %v", got)
	}
	if !IsKnownCategory(Travel) || IsKnownCategory("travel") {
		t.Fatalf("category membership is case-sensitive")
	}
}

func TestLedger(t *testing.T) {
	a := Expense{Name: "a", Date: "2024-01-01", Amount: decimal.NewFromInt(1)}
	b := Expense{Name: "b", Date: "2024-01-02", Amount: decimal.NewFromInt(2)}

	seed := []Expense{a}
	l := NewLedger(seed)
	seed[0].Name = "mutated"
	l.Add(b)
	l.Add(b)

	got := l.Records()
	if l.Len() != 3 || got[0].Name != "a" || !got[1].Equal(got[2]) {
		t.Fatalf("unexpected records %+v", got)
	}

	got[0].Name = "changed"
	if l.Records()[0].Name != "a" {
		t.Fatalf("Records must return a copy")
	}

	removed, err := l.Remove(0)
	if err != nil || removed.Name != "a" || l.Len() != 2 {
		t.Fatalf("remove: %+v %v len=%d", removed, err, l.Len())
	}
	if _, err := l.Remove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}
