package repository

import (
	"context"
	"encoding/json"
	"time"
)

// envelope is the persisted wire form: the payload plus its write time in
// epoch milliseconds.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Expiring wraps a StateStore with a time-to-live envelope. Load fails
// open: a missing key, an unparsable envelope, or one older than the TTL
// yields the default value and never an error. Expired or malformed
// entries are erased on read so stale data cannot resurrect later.
// Backend I/O failures are the only errors surfaced.
type Expiring[T any] struct {
	store      StateStore
	ttl        time.Duration
	defaultVal func() T
}

func NewExpiring[T any](store StateStore, ttl time.Duration, defaultVal func() T) *Expiring[T] {
	return &Expiring[T]{store: store, ttl: ttl, defaultVal: defaultVal}
}

func (e *Expiring[T]) Load(ctx context.Context, key string) (T, error) {
	raw, err := e.store.Get(ctx, key)
	if err != nil {
		return e.defaultVal(), err
	}
	if raw == nil {
		return e.defaultVal(), nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		_ = e.store.Delete(ctx, key)
		return e.defaultVal(), nil
	}
	if time.Since(time.UnixMilli(env.Timestamp)) >= e.ttl {
		_ = e.store.Delete(ctx, key)
		return e.defaultVal(), nil
	}

	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		_ = e.store.Delete(ctx, key)
		return e.defaultVal(), nil
	}
	return data, nil
}

// Save stamps the current time and overwrites the whole envelope. There is
// no merge with concurrent writers; the last physical write wins. The TTL
// is also passed to the backend so Redis reclaims dead entries on its own.
func (e *Expiring[T]) Save(ctx context.Context, key string, data T) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{Data: payload, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		return err
	}
	return e.store.Set(ctx, key, raw, e.ttl)
}

func (e *Expiring[T]) Clear(ctx context.Context, key string) error {
	return e.store.Delete(ctx, key)
}
