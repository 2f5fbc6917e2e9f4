package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the derived view for one period: the matching records, their
// total and the per-category breakdown in first-seen order.
type Summary struct {
	Records    []Expense
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}
