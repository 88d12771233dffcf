package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "wallet_events"

// RedisPublisher forwards events as JSON on a pub/sub channel.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Handle has the Handler signature so the publisher can be subscribed to a Bus.
func (p *RedisPublisher) Handle(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.rdb.Publish(ctx, p.channel, payload).Err()
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
