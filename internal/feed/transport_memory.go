package feed

import (
	"context"
	"sync"

	"trendora/storefront/internal/model"
)

// memoryTransport is a process-local Transport for single-instance
// deployments and tests.
type memoryTransport struct {
	mu   sync.Mutex
	subs map[string][]*memoryFeedSubscription
}

func NewMemoryTransport() Transport {
	return &memoryTransport{subs: make(map[string][]*memoryFeedSubscription)}
}

func (t *memoryTransport) Subscribe(_ context.Context, filter model.ParticipantFilter, onInsert, onUpdate func(model.Conversation)) (Subscription, error) {
	sub := &memoryFeedSubscription{
		owner:    t,
		channel:  ChannelFor(filter),
		onInsert: onInsert,
		onUpdate: onUpdate,
	}
	t.mu.Lock()
	t.subs[sub.channel] = append(t.subs[sub.channel], sub)
	t.mu.Unlock()
	return sub, nil
}

func (t *memoryTransport) Publish(_ context.Context, filter model.ParticipantFilter, event Event) error {
	t.mu.Lock()
	subs := append([]*memoryFeedSubscription(nil), t.subs[ChannelFor(filter)]...)
	t.mu.Unlock()

	for _, sub := range subs {
		switch event.Kind {
		case EventInsert:
			sub.onInsert(event.Conversation)
		case EventUpdate:
			sub.onUpdate(event.Conversation)
		}
	}
	return nil
}

type memoryFeedSubscription struct {
	owner    *memoryTransport
	channel  string
	onInsert func(model.Conversation)
	onUpdate func(model.Conversation)
}

func (s *memoryFeedSubscription) Close() error {
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
