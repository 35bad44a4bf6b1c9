package idle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is how long every instance of a profile must stay silent
// before the session is considered idle.
const DefaultTimeout = 120 * time.Second

// Coordinator is one instance's inactivity timer. While armed, Activity
// resets the timer and broadcasts to sibling instances; an activity
// message received from a sibling resets the timer but is never
// re-broadcast, which is what prevents an infinite ping-pong between
// instances. When the timer fires, onIdle runs exactly once per arming;
// the coordinator then stays quiet until it is explicitly re-armed.
type Coordinator struct {
	profileID   string
	timeout     time.Duration
	broadcaster Broadcaster
	onIdle      func()
	logger      *zap.Logger

	mu          sync.Mutex
	timer       *time.Timer
	sub         Subscription
	armed       bool
	fired       bool
	closed      bool
	lastResetAt time.Time
}

func NewCoordinator(broadcaster Broadcaster, profileID string, timeout time.Duration, onIdle func(), logger *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{
		profileID:   profileID,
		timeout:     timeout,
		broadcaster: broadcaster,
		onIdle:      onIdle,
		logger:      logger,
	}
}

// Arm starts the timer and joins the profile's activity channel. Re-arming
// after a fire is allowed; arming an already-armed coordinator is a no-op.
func (c *Coordinator) Arm(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.armed {
		c.mu.Unlock()
		return nil
	}
	c.armed = true
	c.fired = false
	c.lastResetAt = time.Now()
	c.timer = time.AfterFunc(c.timeout, c.fire)
	c.mu.Unlock()

	sub, err := c.broadcaster.Subscribe(ctx, ChannelFor(c.profileID), c.handleBroadcast)
	if err != nil {
		c.Disarm()
		return err
	}

	c.mu.Lock()
	if !c.armed {
		// Disarmed while subscribing.
		c.mu.Unlock()
		return sub.Close()
	}
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// Activity reports genuine local activity: the timer resets and the reset
// is broadcast so sibling instances reset theirs too.
func (c *Coordinator) Activity(ctx context.Context) {
	if !c.reset() {
		return
	}
	if err := c.broadcaster.Publish(ctx, ChannelFor(c.profileID), ActivityMessage); err != nil {
		c.logger.Warn("activity broadcast failed",
			zap.String("profile_id", c.profileID), zap.Error(err))
	}
}

// handleBroadcast resets the timer on a sibling's activity. It never
// publishes in turn.
func (c *Coordinator) handleBroadcast(message string) {
	if message != ActivityMessage {
		return
	}
	c.reset()
}

// reset reschedules the pending fire. Returns false when there is nothing
// to reset (not armed, already fired, or torn down).
func (c *Coordinator) reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.armed || c.fired {
		return false
	}
	c.lastResetAt = time.Now()
	c.timer.Reset(c.timeout)
	return true
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if !c.armed || c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	onIdle := c.onIdle
	c.mu.Unlock()

	c.logger.Info("session idle timeout reached",
		zap.String("profile_id", c.profileID),
		zap.Duration("timeout", c.timeout))
	if onIdle != nil {
		onIdle()
	}
}

// Disarm clears the pending timer without firing and leaves the activity
// channel. Safe to call repeatedly.
func (c *Coordinator) Disarm() {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
}

// Close disarms permanently. No timer or subscription survives.
func (c *Coordinator) Close() {
	c.Disarm()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// LastResetAt is the time of the most recent arming or reset.
func (c *Coordinator) LastResetAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResetAt
}
