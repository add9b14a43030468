package store

import (
	"context"
	"fmt"
	"sync"

	"lookbook/internal/sentinel"
	"lookbook/internal/session"
	"lookbook/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when no slice has been persisted for the installation
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Memory keeps session slices in memory for tests/dev.
type Memory struct {
	mu     sync.RWMutex
	slices map[domain.InstallationID]session.Snapshot
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{slices: make(map[domain.InstallationID]session.Snapshot)}
}

func (s *Memory) Load(_ context.Context, id domain.InstallationID) (session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.slices[id]; ok {
		return snap, nil
	}
	return session.Snapshot{}, fmt.Errorf("session slice not found: %w", sentinel.ErrNotFound)
}

func (s *Memory) Save(_ context.Context, id domain.InstallationID, snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// AuthReady is runtime-only state and must not survive a restart.
	snap.AuthReady = false
	s.slices[id] = snap
	return nil
}

func (s *Memory) Purge(_ context.Context, id domain.InstallationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slices, id)
	return nil
}
