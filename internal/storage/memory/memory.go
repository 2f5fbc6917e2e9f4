package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// Store keeps the ledger in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
}

var _ storage.Store = (*Store)(nil)

func New(seed []core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

func (s *Store) Load(_ context.Context) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...)
}

func (s *Store) Save(_ context.Context, records []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense(nil), records...)
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
