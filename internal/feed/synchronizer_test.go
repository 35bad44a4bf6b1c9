package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendora/storefront/internal/model"
)

type stubFetcher struct {
	conversations []model.Conversation
	err           error
}

func (f *stubFetcher) ListByParticipant(_ context.Context, _ model.ParticipantFilter) ([]model.Conversation, error) {
	return f.conversations, f.err
}

func ts(t time.Time) *time.Time { return &t }

func newTestFeed(t *testing.T, seed []model.Conversation) (*Synchronizer, Transport, model.ParticipantFilter) {
	t.Helper()
	filter := model.ByUser(uuid.New())
	transport := NewMemoryTransport()
	s := NewSynchronizer(&stubFetcher{conversations: seed}, transport, filter, time.Hour, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s, transport, filter
}

func conv(id uuid.UUID, lastAt *time.Time) model.Conversation {
	return model.Conversation{ID: id, LastMessageAt: lastAt}
}

func ids(list []model.Conversation) []uuid.UUID {
	out := make([]uuid.UUID, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func TestSeedOrderIsRecencyDescending(t *testing.T) {
	now := time.Now()
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	// Deliberately shuffled; conversations without messages sort last.
	s, _, _ := newTestFeed(t, []model.Conversation{
		conv(id3, nil),
		conv(id2, ts(now.Add(-2*time.Hour))),
		conv(id1, ts(now.Add(-1*time.Hour))),
	})

	assert.False(t, s.Loading())
	assert.Equal(t, []uuid.UUID{id1, id2, id3}, ids(s.Snapshot()))
}

func TestUpdateReordersByNewTimestamp(t *testing.T) {
	now := time.Now()
	id1, id2 := uuid.New(), uuid.New()
	s, transport, filter := newTestFeed(t, []model.Conversation{
		conv(id1, ts(now.Add(-1*time.Hour))),
		conv(id2, ts(now.Add(-2*time.Hour))),
	})

	// id2 gets a message newer than id1's.
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventUpdate,
		Conversation: conv(id2, ts(now)),
	}))

	assert.Equal(t, []uuid.UUID{id2, id1}, ids(s.Snapshot()))
}

func TestInsertPrepends(t *testing.T) {
	now := time.Now()
	id1, id2, id3 := uuid.New(), uuid.New(), uuid.New()
	s, transport, filter := newTestFeed(t, []model.Conversation{
		conv(id1, ts(now.Add(-1*time.Hour))),
		conv(id2, ts(now.Add(-2*time.Hour))),
	})

	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventInsert,
		Conversation: conv(id3, nil),
	}))

	assert.Equal(t, []uuid.UUID{id3, id1, id2}, ids(s.Snapshot()))
}

func TestUpdateMergesFields(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	s, transport, filter := newTestFeed(t, []model.Conversation{
		{ID: id, VendorName: "Acme", LastMessageAt: ts(now.Add(-time.Hour)), UnreadCount: 0},
	})

	msg := "hello"
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind: EventUpdate,
		Conversation: model.Conversation{
			ID: id, VendorName: "Acme", LastMessage: &msg,
			LastMessageAt: ts(now), UnreadCount: 3,
		},
	}))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, 3, snapshot[0].UnreadCount)
	require.NotNil(t, snapshot[0].LastMessage)
	assert.Equal(t, "hello", *snapshot[0].LastMessage)
}

func TestUpdateBeforeInsertIsBufferedThenApplied(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	s, transport, filter := newTestFeed(t, nil)

	// The transport gives no cross-event ordering: the update lands first.
	msg := "first message"
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind: EventUpdate,
		Conversation: model.Conversation{
			ID: id, LastMessage: &msg, LastMessageAt: ts(now), UnreadCount: 1,
		},
	}))
	assert.Empty(t, s.Snapshot())

	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventInsert,
		Conversation: conv(id, nil),
	}))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	require.NotNil(t, snapshot[0].LastMessage)
	assert.Equal(t, "first message", *snapshot[0].LastMessage)
	assert.Equal(t, 1, snapshot[0].UnreadCount)
}

func TestBufferedUpdateDroppedAfterGraceWindow(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	filter := model.ByUser(uuid.New())
	transport := NewMemoryTransport()
	s := NewSynchronizer(&stubFetcher{}, transport, filter, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventUpdate,
		Conversation: conv(id, ts(now)),
	}))

	time.Sleep(40 * time.Millisecond)

	// The insert arrives after the window: the stale buffered update must
	// not be applied on top of it.
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventInsert,
		Conversation: model.Conversation{ID: id, UnreadCount: 0},
	}))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Nil(t, snapshot[0].LastMessageAt)
}

func TestInsertOfAlreadySeededConversation(t *testing.T) {
	now := time.Now()
	id1, id2 := uuid.New(), uuid.New()
	s, transport, filter := newTestFeed(t, []model.Conversation{
		conv(id1, ts(now.Add(-1*time.Hour))),
		conv(id2, ts(now.Add(-2*time.Hour))),
	})

	// Insert raced with the seed fetch; no duplicate row may appear.
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventInsert,
		Conversation: conv(id2, ts(now.Add(-2*time.Hour))),
	}))

	assert.Len(t, s.Snapshot(), 2)
}

func TestNoMutationAfterClose(t *testing.T) {
	now := time.Now()
	id1 := uuid.New()
	s, transport, filter := newTestFeed(t, []model.Conversation{
		conv(id1, ts(now.Add(-time.Hour))),
	})

	require.NoError(t, s.Close())

	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventInsert,
		Conversation: conv(uuid.New(), ts(now)),
	}))
	require.NoError(t, transport.Publish(context.Background(), filter, Event{
		Kind:         EventUpdate,
		Conversation: conv(id1, ts(now)),
	}))

	assert.Equal(t, []uuid.UUID{id1}, ids(s.Snapshot()))
}

func TestSeedFetchFailureLeavesEmptyList(t *testing.T) {
	filter := model.ByUser(uuid.New())
	s := NewSynchronizer(&stubFetcher{err: errors.New("db down")}, NewMemoryTransport(), filter, time.Hour, zap.NewNop())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Snapshot())
}
