package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore holds documents in memory. For development and testing.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Read(_ context.Context, name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func (s *MemoryStore) Write(_ context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
	return nil
}
