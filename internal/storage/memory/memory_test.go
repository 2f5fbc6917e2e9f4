package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	seed := []core.Expense{{Name: "a", Date: "2024-01-01", Category: "A", Amount: decimal.NewFromInt(1)}}
	s := New(seed)
	seed[0].Name = "mutated"

	got := s.Load(ctx)
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("unexpected load: %+v", got)
	}

	got[0].Name = "changed"
	if s.Load(ctx)[0].Name != "a" {
		t.Fatalf("Load must return a copy")
	}

	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Load(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil ledger, got %#v", got)
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}
}
