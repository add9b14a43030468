package store

import (
	"context"
	"fmt"
	"sync"

	"lookbook/internal/sentinel"
)

// Memory keeps preference items in memory for tests/dev.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory constructs an empty in-memory preference store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (s *Memory) GetItem(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.items[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("item %q not found: %w", key, sentinel.ErrNotFound)
}

func (s *Memory) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *Memory) DeleteItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
