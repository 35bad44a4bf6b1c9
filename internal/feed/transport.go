// Package feed keeps a recency-ordered conversation list consistent with
// an external change stream: one seed fetch, then insert/update
// notifications delivered at-most-once with no ordering guarantee.
package feed

import (
	"context"

	"trendora/storefront/internal/model"
)

type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
)

// Event is a single change notification for one participant's feed.
type Event struct {
	Kind         EventKind          `json:"kind"`
	Conversation model.Conversation `json:"conversation"`
}

// Transport is the realtime notification channel. Each participant filter
// has its own channel; events on different channels are unordered
// relative to each other and may be lost, never duplicated.
type Transport interface {
	// Subscribe dispatches insert and update notifications for the
	// filter's channel until the subscription is closed. Handlers run on
	// the transport's dispatch goroutine.
	Subscribe(ctx context.Context, filter model.ParticipantFilter, onInsert, onUpdate func(model.Conversation)) (Subscription, error)
	// Publish emits an event to the filter's channel. Used by whatever
	// writes conversations (the messaging backend, seeds, tests).
	Publish(ctx context.Context, filter model.ParticipantFilter, event Event) error
}

type Subscription interface {
	Close() error
}

// ChannelFor names a filter's notification channel.
func ChannelFor(filter model.ParticipantFilter) string {
	return "conversations:" + filter.Column() + ":" + filter.ID().String()
}
