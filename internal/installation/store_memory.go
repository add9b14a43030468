package installation

import (
	"context"
	"fmt"
	"sync"

	"lookbook/internal/sentinel"
	"lookbook/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return nil for successful operations

// MemoryStore stores installations in memory.
type MemoryStore struct {
	mu            sync.RWMutex
	installations map[domain.InstallationID]*Installation
}

// NewMemoryStore constructs an empty in-memory installation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{installations: make(map[domain.InstallationID]*Installation)}
}

func (s *MemoryStore) Save(_ context.Context, inst *Installation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installations[inst.ID] = inst
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.InstallationID) (*Installation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inst, ok := s.installations[id]; ok {
		return inst, nil
	}
	return nil, fmt.Errorf("installation not found: %w", sentinel.ErrNotFound)
}

func (s *MemoryStore) Delete(_ context.Context, id domain.InstallationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.installations[id]; !ok {
		return fmt.Errorf("installation not found: %w", sentinel.ErrNotFound)
	}
	delete(s.installations, id)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.installations), nil
}
