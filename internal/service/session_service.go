package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendora/storefront/internal/idle"
	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
	"trendora/storefront/pkg/crypto"
	jwtpkg "trendora/storefront/pkg/jwt"
)

// userRecordKey holds the encrypted session record, namespaced per profile.
const userRecordKey = "user"

// SessionService is the session-policy side of idle handling: it owns
// login/logout, the encrypted local user record, and decides what an idle
// signal means (clear the record, end the session). The idle coordinator
// itself only emits the signal.
type SessionService interface {
	// Login persists the encrypted record, arms an idle coordinator for
	// the profile and returns a session token.
	Login(ctx context.Context, record model.UserRecord) (string, error)
	Logout(ctx context.Context, profileID uuid.UUID) error
	// CurrentUser returns nil without error when there is no session,
	// including when the stored blob fails to decrypt.
	CurrentUser(ctx context.Context, profileID uuid.UUID) (*model.UserRecord, error)
	// Activity reports genuine local activity for the profile's instance.
	Activity(ctx context.Context, profileID uuid.UUID) error
	// Close tears down every live coordinator.
	Close()
}

type sessionService struct {
	state        repository.StateStore
	cipher       *crypto.Cipher
	jwtManager   *jwtpkg.Manager
	broadcaster  idle.Broadcaster
	idleTimeout  time.Duration
	onSessionEnd func(profileID uuid.UUID)
	logger       *zap.Logger

	mu           sync.Mutex
	coordinators map[uuid.UUID]*idle.Coordinator
}

// NewSessionService wires the policy. onSessionEnd runs after a logout or
// idle expiry has cleared the record; main uses it to dispose the
// profile's conversation feed. It may be nil.
func NewSessionService(
	state repository.StateStore,
	cipher *crypto.Cipher,
	jwtManager *jwtpkg.Manager,
	broadcaster idle.Broadcaster,
	idleTimeout time.Duration,
	onSessionEnd func(profileID uuid.UUID),
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		state:        state,
		cipher:       cipher,
		jwtManager:   jwtManager,
		broadcaster:  broadcaster,
		idleTimeout:  idleTimeout,
		onSessionEnd: onSessionEnd,
		logger:       logger,
		coordinators: make(map[uuid.UUID]*idle.Coordinator),
	}
}

func recordKey(profileID uuid.UUID) string { return profileID.String() + ":" + userRecordKey }

func (s *sessionService) Login(ctx context.Context, record model.UserRecord) (string, error) {
	if record.Role == "" {
		return "", ErrUnsupportedRole
	}
	record.LoggedInAt = time.Now()

	blob, err := s.cipher.Encrypt(record)
	if err != nil {
		return "", err
	}
	if err := s.state.Set(ctx, recordKey(record.ID), blob, 0); err != nil {
		return "", err
	}

	token, err := s.jwtManager.GenerateSessionToken(record.ID, record.Name, record.Role)
	if err != nil {
		return "", err
	}

	profileID := record.ID
	coordinator := idle.NewCoordinator(s.broadcaster, profileID.String(), s.idleTimeout, func() {
		s.expire(profileID)
	}, s.logger)
	if err := coordinator.Arm(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	previous := s.coordinators[profileID]
	s.coordinators[profileID] = coordinator
	s.mu.Unlock()
	if previous != nil {
		previous.Close()
	}

	s.logger.Info("session started",
		zap.String("profile_id", profileID.String()),
		zap.String("role", record.Role))
	return token, nil
}

func (s *sessionService) Logout(ctx context.Context, profileID uuid.UUID) error {
	return s.end(ctx, profileID)
}

// expire is the idle signal handler. The coordinator has already fired;
// policy here is to end the session the same way an explicit logout does.
func (s *sessionService) expire(profileID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.end(ctx, profileID); err != nil {
		s.logger.Warn("failed to end idle session",
			zap.String("profile_id", profileID.String()), zap.Error(err))
	}
}

func (s *sessionService) end(ctx context.Context, profileID uuid.UUID) error {
	s.mu.Lock()
	coordinator := s.coordinators[profileID]
	delete(s.coordinators, profileID)
	s.mu.Unlock()
	if coordinator != nil {
		coordinator.Close()
	}

	if err := s.state.Delete(ctx, recordKey(profileID)); err != nil {
		return err
	}
	if s.onSessionEnd != nil {
		s.onSessionEnd(profileID)
	}
	s.logger.Info("session ended", zap.String("profile_id", profileID.String()))
	return nil
}

func (s *sessionService) CurrentUser(ctx context.Context, profileID uuid.UUID) (*model.UserRecord, error) {
	blob, err := s.state.Get(ctx, recordKey(profileID))
	if err != nil {
		return nil, err
	}
	if blob == nil {
		return nil, nil
	}
	var record model.UserRecord
	if !s.cipher.Decrypt(blob, &record) {
		// Tampered or stale-format blob: degrade to logged out, quietly.
		_ = s.state.Delete(ctx, recordKey(profileID))
		return nil, nil
	}
	return &record, nil
}

func (s *sessionService) Activity(ctx context.Context, profileID uuid.UUID) error {
	s.mu.Lock()
	coordinator := s.coordinators[profileID]
	s.mu.Unlock()
	if coordinator == nil {
		return ErrSessionNotActive
	}
	coordinator.Activity(ctx)
	return nil
}

func (s *sessionService) Close() {
	s.mu.Lock()
	coordinators := make([]*idle.Coordinator, 0, len(s.coordinators))
	for _, c := range s.coordinators {
		coordinators = append(coordinators, c)
	}
	s.coordinators = make(map[uuid.UUID]*idle.Coordinator)
	s.mu.Unlock()

	for _, c := range coordinators {
		c.Close()
	}
}

var _ SessionService = (*sessionService)(nil)
