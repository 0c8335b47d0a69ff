package cache

import (
	"context"
	"sync"
	"time"

	pos "github.com/siscom/backend/internal/application/pos"
)

// entry represents a cached value with expiration
type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReceiptStore caches PDV sale receipts under their idempotency
// keys using an in-memory map. Suitable for single-instance deployments
// and testing.
type InMemoryReceiptStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReceiptStore creates a new in-memory receipt store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryReceiptStore() *InMemoryReceiptStore {
	store := &InMemoryReceiptStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get returns the cached value and whether the key was present
func (s *InMemoryReceiptStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		return nil, false, nil // Expired, treat as absent
	}
	return e.value, true, nil
}

// Set stores the value under the key for the given TTL
func (s *InMemoryReceiptStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryReceiptStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryReceiptStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryReceiptStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryReceiptStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ pos.IdempotencyStore = (*InMemoryReceiptStore)(nil)
