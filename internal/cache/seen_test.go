package cache

import (
	"testing"
	"time"
)

func TestSeenSetMarkAndContains(t *testing.T) {
	s := NewSeenSet(10, time.Hour)
	if s.Contains("a") {
		t.Fatal("empty set should not contain a")
	}
	s.Mark("a")
	if !s.Contains("a") {
		t.Fatal("expected a after Mark")
	}
	s.Mark("a")
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}
}

func TestSeenSetEvictsLeastRecent(t *testing.T) {
	s := NewSeenSet(2, time.Hour)
	s.Mark("a")
	s.Mark("b")
	s.Mark("a")
	s.Mark("c")

	if s.Contains("b") {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if !s.Contains(k) {
			t.Errorf("expected %s to be kept", k)
		}
	}
}

func TestSeenSetExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSeenSet(10, time.Minute)
	s.now = func() time.Time { return now }

	s.Mark("a")
	s.Mark("b")
	now = now.Add(30 * time.Second)
	s.Mark("b")
	now = now.Add(45 * time.Second)

	if got := s.CleanExpired(); got != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", got)
	}
	if s.Contains("a") || !s.Contains("b") {
		t.Fatal("expected only b to survive")
	}
	now = now.Add(time.Minute)
	if s.Contains("b") {
		t.Fatal("b should have expired")
	}
	if s.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", s.Size())
	}
}
