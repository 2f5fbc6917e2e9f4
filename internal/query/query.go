// Package query derives filtered views and aggregates from a ledger snapshot.
// Every function is pure: inputs are never modified and nothing is retained.
package query

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// FilterByMonth returns the records dated in the same calendar year and month
// as ref. Records whose date does not parse are left out.
func FilterByMonth(records []core.Expense, ref time.Time) []core.Expense {
	year, month, _ := ref.Date()
	out := make([]core.Expense, 0, len(records))
	for _, e := range records {
		t, err := e.Time()
		if err != nil {
			continue
		}
		if t.Year() == year && t.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// FilterByMonthName returns the records dated in the named month of any year.
// The name is matched case-insensitively against full English month names; an
// unknown name matches nothing.
func FilterByMonthName(records []core.Expense, name string) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	month, ok := ParseMonthName(name)
	if !ok {
		return out
	}
	for _, e := range records {
		t, err := e.Time()
		if err != nil {
			continue
		}
		if t.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// ParseMonthName maps "January".."December" (any case) to a time.Month.
func ParseMonthName(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}

// SumAmount adds up the amounts of records. An empty input sums to zero.
func SumAmount(records []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// AggregateByCategory accumulates amounts per category. The result keeps the
// order in which each category was first seen in records.
func AggregateByCategory(records []core.Expense) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0)
	index := map[string]int{}
	for _, e := range records {
		if i, ok := index[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Category] = len(out)
		out = append(out, core.CategoryAmount{Name: e.Category, Amount: e.Amount})
	}
	return out
}

// Share returns amount as a percentage of total, rounded to two places.
func Share(amount, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(100)).Div(total).Round(2)
}
