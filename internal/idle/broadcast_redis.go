package idle

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisBroadcaster struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBroadcaster(client *redis.Client, logger *zap.Logger) Broadcaster {
	return &redisBroadcaster{client: client, logger: logger}
}

func (b *redisBroadcaster) Publish(ctx context.Context, channel, message string) error {
	return b.client.Publish(ctx, channel, message).Err()
}

func (b *redisBroadcaster) Subscribe(ctx context.Context, channel string, handler func(message string)) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	// Force the subscription onto the wire before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			handler(msg.Payload)
		}
		b.logger.Debug("idle channel closed", zap.String("channel", channel))
	}()

	return &redisSubscription{pubsub: pubsub}, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
