package idle

import (
	"context"
	"sync"
)

// memoryBroadcaster is a process-local Broadcaster for single-instance
// deployments and tests. Messages are delivered synchronously to every
// subscriber of the channel, including the publisher's own subscription,
// matching Redis pub/sub semantics.
type memoryBroadcaster struct {
	mu   sync.Mutex
	subs map[string][]*memorySubscription
}

func NewMemoryBroadcaster() Broadcaster {
	return &memoryBroadcaster{subs: make(map[string][]*memorySubscription)}
}

func (b *memoryBroadcaster) Publish(_ context.Context, channel, message string) error {
	b.mu.Lock()
	handlers := make([]func(string), 0, len(b.subs[channel]))
	for _, sub := range b.subs[channel] {
		handlers = append(handlers, sub.handler)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(message)
	}
	return nil
}

func (b *memoryBroadcaster) Subscribe(_ context.Context, channel string, handler func(message string)) (Subscription, error) {
	sub := &memorySubscription{owner: b, channel: channel, handler: handler}
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], sub)
	b.mu.Unlock()
	return sub, nil
}

type memorySubscription struct {
	owner   *memoryBroadcaster
	channel string
	handler func(string)
}

func (s *memorySubscription) Close() error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	subs := s.owner.subs[s.channel]
	for i, sub := range subs {
		if sub == s {
			s.owner.subs[s.channel] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	return nil
}
