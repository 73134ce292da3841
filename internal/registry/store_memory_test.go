package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestGrantAndHas() {
	held, err := s.store.Has(s.ctx, "factory-7", RoleManufacturer)
	s.Require().NoError(err)
	s.False(held)

	s.Require().NoError(s.store.Grant(s.ctx, "factory-7", RoleManufacturer))

	held, err = s.store.Has(s.ctx, "factory-7", RoleManufacturer)
	s.Require().NoError(err)
	s.True(held)

	// Holding one role implies nothing about the others.
	held, err = s.store.Has(s.ctx, "factory-7", RoleRetailer)
	s.Require().NoError(err)
	s.False(held)
}

func (s *InMemoryStoreSuite) TestGrantIdempotent() {
	s.Require().NoError(s.store.Grant(s.ctx, "depot-1", RoleDistributor))
	s.Require().NoError(s.store.Grant(s.ctx, "depot-1", RoleDistributor))

	held, err := s.store.Has(s.ctx, "depot-1", RoleDistributor)
	s.Require().NoError(err)
	s.True(held)
}

func (s *InMemoryStoreSuite) TestConcurrentGrants() {
	var wg sync.WaitGroup
	for _, role := range []Role{RoleManufacturer, RoleDistributor, RoleRetailer} {
		for range 16 {
			wg.Add(1)
			go func(r Role) {
				defer wg.Done()
				_ = s.store.Grant(s.ctx, "shared-id", r)
				_, _ = s.store.Has(s.ctx, "shared-id", r)
			}(role)
		}
	}
	wg.Wait()

	for _, role := range []Role{RoleManufacturer, RoleDistributor, RoleRetailer} {
		held, err := s.store.Has(s.ctx, "shared-id", role)
		s.Require().NoError(err)
		s.True(held)
	}
}
