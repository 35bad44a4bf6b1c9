package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendora/storefront/internal/feed"
	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
)

type ConversationService interface {
	// List returns the viewer's conversation snapshot with display fields
	// resolved, plus whether the seed fetch is still pending.
	List(ctx context.Context, filter model.ParticipantFilter) ([]feed.ConversationView, bool, error)
	// Dispose tears down any live feed belonging to the profile.
	Dispose(profileID uuid.UUID)
	Close()
}

type conversationService struct {
	repo      repository.ConversationRepository
	transport feed.Transport
	grace     time.Duration
	logger    *zap.Logger

	mu    sync.Mutex
	feeds map[model.ParticipantFilter]*feed.Synchronizer
}

func NewConversationService(repo repository.ConversationRepository, transport feed.Transport, grace time.Duration, logger *zap.Logger) ConversationService {
	return &conversationService{
		repo:      repo,
		transport: transport,
		grace:     grace,
		logger:    logger,
		feeds:     make(map[model.ParticipantFilter]*feed.Synchronizer),
	}
}

func (s *conversationService) List(ctx context.Context, filter model.ParticipantFilter) ([]feed.ConversationView, bool, error) {
	synchronizer, err := s.feedFor(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	snapshot := synchronizer.Snapshot()
	now := time.Now()
	views := make([]feed.ConversationView, len(snapshot))
	for i, c := range snapshot {
		views[i] = feed.ViewFor(filter, c, now)
	}
	return views, synchronizer.Loading(), nil
}

// feedFor lazily starts one synchronizer per filter and keeps it running
// until the session ends.
func (s *conversationService) feedFor(ctx context.Context, filter model.ParticipantFilter) (*feed.Synchronizer, error) {
	s.mu.Lock()
	if existing, ok := s.feeds[filter]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	synchronizer := feed.NewSynchronizer(s.repo, s.transport, filter, s.grace, s.logger)
	s.feeds[filter] = synchronizer
	s.mu.Unlock()

	if err := synchronizer.Start(ctx); err != nil {
		s.mu.Lock()
		delete(s.feeds, filter)
		s.mu.Unlock()
		_ = synchronizer.Close()
		return nil, err
	}
	return synchronizer, nil
}

func (s *conversationService) Dispose(profileID uuid.UUID) {
	s.mu.Lock()
	var doomed []*feed.Synchronizer
	for filter, synchronizer := range s.feeds {
		if filter.ID() == profileID {
			doomed = append(doomed, synchronizer)
			delete(s.feeds, filter)
		}
	}
	s.mu.Unlock()

	for _, synchronizer := range doomed {
		if err := synchronizer.Close(); err != nil {
			s.logger.Warn("failed to close conversation feed",
				zap.String("profile_id", profileID.String()), zap.Error(err))
		}
	}
}

func (s *conversationService) Close() {
	s.mu.Lock()
	feeds := make([]*feed.Synchronizer, 0, len(s.feeds))
	for _, synchronizer := range s.feeds {
		feeds = append(feeds, synchronizer)
	}
	s.feeds = make(map[model.ParticipantFilter]*feed.Synchronizer)
	s.mu.Unlock()

	for _, synchronizer := range feeds {
		_ = synchronizer.Close()
	}
}

var _ ConversationService = (*conversationService)(nil)
