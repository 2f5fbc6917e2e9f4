package query

import (
	"errors"
	"strings"
	"time"

	"ledger/internal/core"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Period selects either the calendar month of a reference date (same year) or
// a named month across all years. The two are deliberately distinct filters.
type Period struct {
	ref   time.Time
	month time.Month
	named bool
}

// CurrentMonth selects the year and month containing ref.
func CurrentMonth(ref time.Time) Period {
	return Period{ref: ref}
}

// NamedMonth selects the given month of every year.
func NamedMonth(m time.Month) Period {
	return Period{month: m, named: true}
}

// ParsePeriod reads a selector as typed by a user: "" or "current" for the
// month containing now, "YYYY-MM" for an exact month, or an English month name
// for that month across all years.
func ParsePeriod(s string, now time.Time) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "current") {
		return CurrentMonth(now), nil
	}
	if m, ok := ParseMonthName(s); ok {
		return NamedMonth(m), nil
	}
	if t, err := time.ParseInLocation("2006-01", s, time.UTC); err == nil {
		return CurrentMonth(t), nil
	}
	return Period{}, ErrUnknownPeriod
}

// Filter applies the period's predicate to records.
func (p Period) Filter(records []core.Expense) []core.Expense {
	if p.named {
		return FilterByMonthName(records, p.month.String())
	}
	return FilterByMonth(records, p.ref)
}

// Contains reports whether e falls in the period.
func (p Period) Contains(e core.Expense) bool {
	return len(p.Filter([]core.Expense{e})) == 1
}

// String renders the period for headings, e.g. "March 2024" or "March (all years)".
func (p Period) String() string {
	if p.named {
		return p.month.String() + " (all years)"
	}
	return p.ref.Format("January 2006")
}

// Summarize filters records by p and derives the total and category breakdown.
func Summarize(records []core.Expense, p Period) core.Summary {
	filtered := p.Filter(records)
	return core.Summary{
		Records:    filtered,
		Total:      SumAmount(filtered),
		ByCategory: AggregateByCategory(filtered),
	}
}
