package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendora/storefront/internal/model"
)

// DefaultGraceWindow is how long an update for a conversation we have not
// seen yet is kept around waiting for its insert.
const DefaultGraceWindow = 30 * time.Second

// Fetcher is the one-shot seed source for a participant's conversations.
type Fetcher interface {
	ListByParticipant(ctx context.Context, filter model.ParticipantFilter) ([]model.Conversation, error)
}

type pendingUpdate struct {
	conversation model.Conversation
	receivedAt   time.Time
}

// Synchronizer maintains one participant's recency-ordered conversation
// list. Start seeds the list with a fetch and then consumes the filter's
// change channel: inserts are prepended (a new conversation has no prior
// history), updates are merged by id and the list re-sorted with a missing
// timestamp treated as the oldest. An update arriving before its insert is
// buffered for a grace window and applied when the insert shows up instead
// of being dropped.
type Synchronizer struct {
	fetcher   Fetcher
	transport Transport
	filter    model.ParticipantFilter
	grace     time.Duration
	logger    *zap.Logger

	mu      sync.RWMutex
	list    []model.Conversation
	pending map[uuid.UUID]pendingUpdate
	sub     Subscription
	loading bool
	closed  bool
}

func NewSynchronizer(fetcher Fetcher, transport Transport, filter model.ParticipantFilter, grace time.Duration, logger *zap.Logger) *Synchronizer {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &Synchronizer{
		fetcher:   fetcher,
		transport: transport,
		filter:    filter,
		grace:     grace,
		logger:    logger,
		pending:   make(map[uuid.UUID]pendingUpdate),
		loading:   true,
	}
}

// Start performs the seed fetch and subscribes to the change channel.
// Loading reports true until the fetch resolves, success or not; a failed
// fetch leaves an empty list until the caller retries.
func (s *Synchronizer) Start(ctx context.Context) error {
	conversations, err := s.fetcher.ListByParticipant(ctx, s.filter)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sortByRecency(conversations)
	s.list = conversations
	s.mu.Unlock()

	sub, err := s.transport.Subscribe(ctx, s.filter, s.handleInsert, s.handleUpdate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return sub.Close()
	}
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) handleInsert(c model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	now := time.Now()
	s.prunePending(now)

	if idx := s.indexOf(c.ID); idx >= 0 {
		// The seed fetch already picked this row up; treat as an update.
		s.list[idx] = c
		sortByRecency(s.list)
		return
	}

	s.list = append([]model.Conversation{c}, s.list...)

	if p, ok := s.pending[c.ID]; ok {
		delete(s.pending, c.ID)
		s.list[0] = p.conversation
		sortByRecency(s.list)
		s.logger.Debug("applied buffered update after late insert",
			zap.String("conversation_id", c.ID.String()))
	}
}

func (s *Synchronizer) handleUpdate(c model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	now := time.Now()
	s.prunePending(now)

	idx := s.indexOf(c.ID)
	if idx < 0 {
		// Insert and update raced on the transport; hold the update until
		// the insert arrives or the grace window lapses.
		s.pending[c.ID] = pendingUpdate{conversation: c, receivedAt: now}
		return
	}

	s.list[idx] = c
	sortByRecency(s.list)
}

// Snapshot returns a copy of the current list.
func (s *Synchronizer) Snapshot() []model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Conversation, len(s.list))
	copy(out, s.list)
	return out
}

// Loading reports whether the seed fetch is still outstanding.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Close unsubscribes; no list mutation happens afterwards.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.pending = nil
	s.mu.Unlock()

	if sub != nil {
		return sub.Close()
	}
	return nil
}

// indexOf requires s.mu held.
func (s *Synchronizer) indexOf(id uuid.UUID) int {
	for i := range s.list {
		if s.list[i].ID == id {
			return i
		}
	}
	return -1
}

// prunePending requires s.mu held.
func (s *Synchronizer) prunePending(now time.Time) {
	for id, p := range s.pending {
		if now.Sub(p.receivedAt) > s.grace {
			delete(s.pending, id)
			s.logger.Debug("dropping buffered update, insert never arrived",
				zap.String("conversation_id", id.String()))
		}
	}
}

func recencyKey(c model.Conversation) int64 {
	if c.LastMessageAt == nil {
		return 0
	}
	return c.LastMessageAt.UnixMilli()
}

func sortByRecency(list []model.Conversation) {
	sort.SliceStable(list, func(i, j int) bool {
		return recencyKey(list[i]) > recencyKey(list[j])
	})
}
