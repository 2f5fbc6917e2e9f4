// Package cache holds small in-process caches used by long-running workers.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// SeenSet remembers recently handled keys with TTL and size-based eviction.
// The least recently marked key is evicted first.
type SeenSet struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type seenEntry struct {
	key       string
	expiresAt time.Time
}

// NewSeenSet creates a set holding at most maxSize keys for ttl each.
func NewSeenSet(maxSize int, ttl time.Duration) *SeenSet {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &SeenSet{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Contains reports whether key was marked and has not expired.
func (s *SeenSet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return false
	}
	if s.now().After(elem.Value.(*seenEntry).expiresAt) {
		s.removeElement(elem)
		return false
	}
	return true
}

// Mark records key, refreshing its expiry if already present.
func (s *SeenSet) Mark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if elem, ok := s.items[key]; ok {
		elem.Value.(*seenEntry).expiresAt = expiresAt
		s.lru.MoveToFront(elem)
		return
	}

	s.items[key] = s.lru.PushFront(&seenEntry{key: key, expiresAt: expiresAt})
	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
}

func (s *SeenSet) removeElement(elem *list.Element) {
	delete(s.items, elem.Value.(*seenEntry).key)
	s.lru.Remove(elem)
}

// CleanExpired drops expired keys and returns how many were removed.
func (s *SeenSet) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*seenEntry).expiresAt) {
			expired = append(expired, elem)
		}
	}
	for _, elem := range expired {
		s.removeElement(elem)
	}
	return len(expired)
}

// Size returns the number of keys currently held.
func (s *SeenSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
