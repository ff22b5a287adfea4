// Package cache_driver provides the storage backends behind the binary cache.
package cache_driver

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryCapacity is the tier-1 capacity used when none is configured.
const DefaultMemoryCapacity = 64

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a bounded in-process byte store with per-entry expiry.
// Reads do not refresh recency, so a full store drops the oldest-inserted key.
type MemoryStore struct {
	// mu makes the expiry check and its Remove atomic with respect to Set.
	mu      sync.Mutex
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	entries, err := lru.New[string, memoryEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{entries: entries, now: time.Now}, nil
}

// Get returns the payload and its remaining lifetime. Expired entries are removed.
func (s *MemoryStore) Get(key string) ([]byte, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries.Peek(key)
	if !ok {
		return nil, 0, false
	}
	remaining := entry.expiresAt.Sub(s.now())
	if remaining <= 0 {
		s.entries.Remove(key)
		return nil, 0, false
	}
	return entry.data, remaining, true
}

// Set stores data for ttl. A non-positive ttl is ignored.
func (s *MemoryStore) Set(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	entry := memoryEntry{data: data, expiresAt: s.now().Add(ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Add(key, entry)
}

// Len returns the number of stored entries, including expired ones not yet read.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
