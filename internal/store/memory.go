package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process memory. Used as the dev
// fallback when no store backend is configured, and by tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Record)}
}

// FetchAll lists every record in the collection.
func (s *MemoryStore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.collections[collection]
	out := make([]Record, len(records))
	for i, record := range records {
		out[i] = Record{ID: record.ID, Fields: cloneFields(record.Fields)}
	}
	return out, nil
}

// Insert stores a new record under a fresh id.
func (s *MemoryStore) Insert(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	record := Record{ID: uuid.NewString(), Fields: cloneFields(fields)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], record)
	return Record{ID: record.ID, Fields: cloneFields(record.Fields)}, nil
}

// Update replaces the field map of an existing record.
func (s *MemoryStore) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i := range records {
		if records[i].ID == id {
			records[i].Fields = cloneFields(fields)
			return nil
		}
	}
	return fmt.Errorf("record %s not found in %s", id, collection)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func cloneFields(fields map[string]any) map[string]any {
	clone := make(map[string]any, len(fields))
	for k, v := range fields {
		clone[k] = v
	}
	return clone
}
