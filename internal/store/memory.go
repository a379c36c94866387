// Package store provides the mapping store backends: an in-memory map for
// tests and single-process setups, Postgres for durable storage, Redis as an
// alternative engine and as a read cache over the durable store.
package store

import (
	"context"
	"sync"

	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository. It is
// safe for concurrent use; the mutex makes create-if-absent atomic per slug.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shortener.Slug]shortener.ShortURL
}

// NewMemoryStore creates an empty in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Slug]shortener.ShortURL),
	}
}

func (m *MemoryStore) CreateIfAbsent(_ context.Context, record *shortener.ShortURL) (shortener.CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.records[record.Slug]; ok {
		return shortener.CreateResult{ExistingURL: existing.OriginalURL}, nil
	}

	m.records[record.Slug] = *record

	return shortener.CreateResult{Created: true}, nil
}

func (m *MemoryStore) Lookup(_ context.Context, slug shortener.Slug) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[slug]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return record.OriginalURL, nil
}

// Len reports the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
