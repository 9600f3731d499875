package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
)

// MemoryStore is an in-memory implementation of the NonceStore interface
type MemoryStore struct {
	records map[string]core.NonceRecord
	mu      sync.Mutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.NonceStore {
	return &MemoryStore{
		records: make(map[string]core.NonceRecord),
	}
}

// Put stores the nonce record for an address.
// Expiry is checked by the caller when the record is taken, so ttl is unused.
func (s *MemoryStore) Put(ctx context.Context, address string, record core.NonceRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[address] = record
	return nil
}

// Take removes and returns the nonce record for an address
func (s *MemoryStore) Take(ctx context.Context, address string) (core.NonceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[address]
	delete(s.records, address)

	return record, exists, nil
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
