package docstore

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"lookbook/internal/sentinel"
)

// Memory keeps documents in memory for tests/dev.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemory constructs an empty in-memory document store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func (s *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.collections[collection][id]; ok {
		out := make(Document, len(doc))
		maps.Copy(out, doc)
		return out, nil
	}
	return nil, fmt.Errorf("document %s/%s not found: %w", collection, id, sentinel.ErrNotFound)
}

func (s *Memory) Set(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	stored := make(Document, len(doc))
	maps.Copy(stored, doc)
	s.collections[collection][id] = stored
	return nil
}

func (s *Memory) Update(_ context.Context, collection, id string, partial Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("document %s/%s not found: %w", collection, id, sentinel.ErrNotFound)
	}
	maps.Copy(doc, partial)
	return nil
}

func (s *Memory) List(_ context.Context, collection string) (map[string]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Document, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		copied := make(Document, len(doc))
		maps.Copy(copied, doc)
		out[id] = copied
	}
	return out, nil
}
