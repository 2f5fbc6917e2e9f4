// Package storage defines the persistence port for the ledger and the error
// type its adapters report.
package storage

import (
	"context"
	"fmt"

	"ledger/internal/core"
)

// Store persists the whole ledger.
//
// Load never fails the caller: a missing or unreadable target yields an empty
// ledger, and records that cannot be decoded are dropped. Save replaces the
// entire stored ledger with records, in order.
type Store interface {
	Load(ctx context.Context) []core.Expense
	Save(ctx context.Context, records []core.Expense) error
}

// IOError reports a storage failure during Load or Save.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
