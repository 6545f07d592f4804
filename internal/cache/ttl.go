package cache

import (
	"sort"
	"sync"
	"time"
)

// Default store limits
const (
	DefaultTTL      = 5 * time.Minute
	DefaultMaxItems = 1000
)

// entry wraps a cached value with its creation and expiration timestamps.
type entry[V any] struct {
	value   V
	created time.Time
	expires time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return now.After(e.expires)
}

// Store is an expiring key-value store with capacity eviction. All methods
// are safe for concurrent use; none of them ever block on I/O.
//
// A disabled store keeps the same API surface: every Get misses and every Set
// is a no-op, so call sites never special-case the disabled mode.
type Store[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	defaultTTL time.Duration
	maxItems   int
	enabled    bool
}

// NewStore creates a store with the given default TTL and item cap. Non
// positive arguments fall back to the package defaults.
func NewStore[V any](defaultTTL time.Duration, maxItems int, enabled bool) *Store[V] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: defaultTTL,
		maxItems:   maxItems,
		enabled:    enabled,
	}
}

// Get returns the value stored under key. A found-but-expired entry reports
// a miss and is removed as a side effect.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if s == nil {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return zero, false
	}
	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL, overwriting any existing
// entry. It may trigger eviction.
func (s *Store[V]) Set(key string, value V) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (s *Store[V]) SetTTL(key string, value V, ttl time.Duration) {
	if s == nil {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}
	now := time.Now()
	s.entries[key] = entry[V]{value: value, created: now, expires: now.Add(ttl)}
	if len(s.entries) > s.maxItems {
		s.evict(now)
	}
}

// Delete removes the entry for key if present.
func (s *Store[V]) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeleteFunc removes every entry whose key matches the predicate.
func (s *Store[V]) DeleteFunc(match func(key string) bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if match(key) {
			delete(s.entries, key)
		}
	}
}

// Clear removes all entries.
func (s *Store[V]) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()
}

// Len reports the number of physically present entries, expired or not.
func (s *Store[V]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats summarizes store contents for the status bar.
type Stats struct {
	Total   int
	Valid   int
	Enabled bool
}

// Stats returns a snapshot of store occupancy.
func (s *Store[V]) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.entries), Enabled: s.enabled}
	now := time.Now()
	for _, e := range s.entries {
		if !e.expired(now) {
			st.Valid++
		}
	}
	return st
}

// evict drops expired entries first, then the oldest-created entries until
// the store is back under its cap. Caller must hold the lock.
func (s *Store[V]) evict(now time.Time) {
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
		}
	}
	if len(s.entries) <= s.maxItems {
		return
	}

	type aged struct {
		key     string
		created time.Time
	}
	byAge := make([]aged, 0, len(s.entries))
	for key, e := range s.entries {
		byAge = append(byAge, aged{key: key, created: e.created})
	}
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].created.Before(byAge[j].created) })

	excess := len(s.entries) - s.maxItems
	for i := 0; i < excess; i++ {
		delete(s.entries, byAge[i].key)
	}
}
