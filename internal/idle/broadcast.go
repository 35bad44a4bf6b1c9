// Package idle decides when a profile's session should be treated as
// inactive across every running storefront instance of that profile. Each
// instance arms its own timer; genuine local activity resets the timer and
// is broadcast so sibling instances reset theirs too.
package idle

import "context"

// ActivityMessage is the only payload ever sent on an idle channel.
const ActivityMessage = "user-activity"

// ChannelFor names the profile's activity channel.
func ChannelFor(profileID string) string {
	return "idle-timeout:" + profileID
}

// Broadcaster is the advisory cross-instance channel. Delivery is
// at-most-once: a lost message only means a sibling's timer may fire
// slightly early, never a correctness violation.
type Broadcaster interface {
	Publish(ctx context.Context, channel, message string) error
	// Subscribe registers handler for messages on channel until the
	// returned subscription is closed. The handler runs on the
	// broadcaster's dispatch goroutine and must not block.
	Subscribe(ctx context.Context, channel string, handler func(message string)) (Subscription, error)
}

type Subscription interface {
	Close() error
}
