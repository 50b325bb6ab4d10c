// internal/storage/chat/memory.go
package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tomaskal/hermes/internal/core"
)

// MemoryStore is an in-memory chat store for tests and dev runs.
type MemoryStore struct {
	records []core.AccountingRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a record to the store, assigning an id if none was set.
func (m *MemoryStore) Append(ctx context.Context, record core.AccountingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	m.records = append(m.records, record)
	return nil
}

// Aggregate returns totals over all stored records.
func (m *MemoryStore) Aggregate(ctx context.Context) (core.Aggregate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agg := core.Aggregate{TotalChats: len(m.records)}
	for _, r := range m.records {
		agg.TotalTokens += r.TokensUsed
		agg.TotalCost += r.Cost
	}
	return agg, nil
}

// List returns records matching the filter in insertion order.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]core.AccountingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []core.AccountingRecord
	for _, r := range m.records {
		if m.matches(r, filter) {
			result = append(result, r)
		}
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MemoryStore) matches(r core.AccountingRecord, filter ListFilter) bool {
	if filter.User != "" && r.User != filter.User {
		return false
	}
	if filter.Provider != "" && r.Provider != filter.Provider {
		return false
	}
	if !filter.From.IsZero() && r.Timestamp.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && r.Timestamp.After(filter.To) {
		return false
	}
	return true
}

var _ Store = (*MemoryStore)(nil)
