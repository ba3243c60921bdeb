package rates

import (
	"context"
	"sync"

	"vat-calc/core/vat"
)

// MemoryStore keeps rates in process
type MemoryStore struct {
	mu    sync.RWMutex
	table vat.RateTable
}

// NewMemoryStore creates a store seeded with table
func NewMemoryStore(table vat.RateTable) *MemoryStore {
	return &MemoryStore{table: table}
}

// Backend returns BackendMemory
func (s *MemoryStore) Backend() Backend {
	return BackendMemory
}

// Snapshot returns the current rates
func (s *MemoryStore) Snapshot(ctx context.Context) (vat.RateTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, nil
}

// Update replaces the rates
func (s *MemoryStore) Update(ctx context.Context, table vat.RateTable) error {
	if err := Validate(table); err != nil {
		return err
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
