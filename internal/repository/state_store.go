package repository

import (
	"context"
	"time"
)

// StateStore is the durable key-value medium shared by every running
// instance of a profile's storefront. There is no cross-instance locking:
// the last physical write wins.
// Implementations: Redis (production) or in-memory (local dev / tests).
type StateStore interface {
	// Set overwrites the value under key. A ttl of zero means no
	// backend-side expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
