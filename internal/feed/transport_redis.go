package feed

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"trendora/storefront/internal/model"
)

type redisTransport struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisTransport(client *redis.Client, logger *zap.Logger) Transport {
	return &redisTransport{client: client, logger: logger}
}

func (t *redisTransport) Subscribe(ctx context.Context, filter model.ParticipantFilter, onInsert, onUpdate func(model.Conversation)) (Subscription, error) {
	channel := ChannelFor(filter)
	pubsub := t.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				t.logger.Warn("dropping malformed feed event",
					zap.String("channel", channel), zap.Error(err))
				continue
			}
			switch event.Kind {
			case EventInsert:
				onInsert(event.Conversation)
			case EventUpdate:
				onUpdate(event.Conversation)
			default:
				t.logger.Warn("dropping feed event of unknown kind",
					zap.String("channel", channel), zap.String("kind", string(event.Kind)))
			}
		}
	}()

	return &redisFeedSubscription{pubsub: pubsub}, nil
}

func (t *redisTransport) Publish(ctx context.Context, filter model.ParticipantFilter, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return t.client.Publish(ctx, ChannelFor(filter), payload).Err()
}

type redisFeedSubscription struct {
	pubsub *redis.PubSub
}

func (s *redisFeedSubscription) Close() error {
	return s.pubsub.Close()
}
