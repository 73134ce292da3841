package registry

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"traceline/pkg/domain"
)

// RedisStore persists grants as one Redis set per identity. Keys carry no TTL:
// grants are permanent.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "traceline:roles:",
	}
}

func (s *RedisStore) key(identity domain.Identity) string {
	return s.keyPrefix + identity.String()
}

func (s *RedisStore) Grant(ctx context.Context, identity domain.Identity, role Role) error {
	if err := s.client.SAdd(ctx, s.key(identity), role.String()).Err(); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

func (s *RedisStore) Has(ctx context.Context, identity domain.Identity, role Role) (bool, error) {
	held, err := s.client.SIsMember(ctx, s.key(identity), role.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return held, nil
}
