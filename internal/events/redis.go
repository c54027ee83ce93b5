package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes events onto a Redis pub/sub channel. The socket
// gateway subscribes to this channel and fans out to connected clients;
// delivery is at-most-once by design.

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) (*RedisPublisher, error) {
	if rdb == nil {
		return nil, fmt.Errorf("events: redis client is required")
	}
	if channel == "" {
		return nil, fmt.Errorf("events: channel is required")
	}
	return &RedisPublisher{rdb: rdb, channel: channel}, nil
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}
