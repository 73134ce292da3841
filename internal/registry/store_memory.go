package registry

import (
	"context"
	"sync"

	"traceline/pkg/domain"
)

// InMemoryStore keeps grants in a mutex-guarded map. Reads take the shared
// lock so HasRole checks run concurrently.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[domain.Identity]map[Role]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{grants: make(map[domain.Identity]map[Role]bool)}
}

func (s *InMemoryStore) Grant(_ context.Context, identity domain.Identity, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles, ok := s.grants[identity]
	if !ok {
		roles = make(map[Role]bool)
		s.grants[identity] = roles
	}
	roles[role] = true
	return nil
}

func (s *InMemoryStore) Has(_ context.Context, identity domain.Identity, role Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[identity][role], nil
}
