package revalidate

import (
	"context"

	"github.com/redis/go-redis/v9"

	"dashboard/internal/logging"
)

// DefaultChannel is the Pub/Sub channel used when none is configured.
const DefaultChannel = "dashboard:revalidate"

// RedisPublisher broadcasts revalidations to every instance sharing a Redis.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logging.Logger
}

// NewRedisPublisher returns a publisher on channel.
func NewRedisPublisher(client *redis.Client, channel string, log *logging.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel, log: log}
}

// Revalidate publishes path. A failed publish is logged and dropped, so other
// instances miss it; combine with the local Bus in a Fanout.
func (p *RedisPublisher) Revalidate(ctx context.Context, path string) {
	if err := p.client.Publish(ctx, p.channel, path).Err(); err != nil {
		p.log.Error(ctx, "revalidate publish failed", "path", path, "error", err)
	}
}

// Relay forwards every path published on channel to bus until ctx is done.
func Relay(ctx context.Context, client *redis.Client, channel string, bus *Bus, log *logging.Logger) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()
	// wait for the subscription to be confirmed so no publish is missed
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			log.Debug(ctx, "revalidate", "path", msg.Payload)
			bus.Revalidate(ctx, msg.Payload)
		}
	}
}
