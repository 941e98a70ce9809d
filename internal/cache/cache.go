// Package cache implements a small in-memory store with per-entry TTL.
// Entries are evicted lazily on read and by CleanExpired.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  any
	expiry time.Time
}

// Store is a thread-safe expiring key-value cache.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key, or false when absent or expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.now().After(e.expiry) {
		s.mu.Lock()
		// Re-check under the write lock; a Set may have raced the expiry.
		if cur, ok := s.entries[key]; ok && s.now().After(cur.expiry) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key for ttl.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiry: s.now().Add(ttl)}
}

// Delete removes key, reporting whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Clear drops all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// CleanExpired removes all expired entries and returns how many were dropped.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	cutoff := s.now()
	for k, e := range s.entries {
		if cutoff.After(e.expiry) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}
