package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events on a Redis Pub/Sub channel. Pub/Sub gives the
// fire-and-forget, no-acknowledgment semantics notifications are specified
// with: observers that are not subscribed miss the event.
type RedisSink struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisSink(client redis.UniversalClient, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Publish(ctx context.Context, payload []byte) error {
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.channel, err)
	}
	return nil
}
