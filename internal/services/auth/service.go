package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/studentdesk/internal/dependencies/clock"
	"github.com/mcoot/studentdesk/internal/dependencies/random"
	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/services/password"
	"github.com/mcoot/studentdesk/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = model.ErrUsernameExists
)

// Session represents an authenticated browser session
type Session struct {
	Token     string
	UserID    model.UserID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles registration, login and session management
type Service struct {
	users  storage.UserStore
	hasher password.Hasher
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	tokenLength     int

	// compared against when the username is unknown, so that path costs
	// the same as a wrong password
	dummyHash string
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	TokenLength     int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		TokenLength:     43, // ~256 bits over TokenAlphabet
	}
}

// New creates a new auth Service
func New(users storage.UserStore, hasher password.Hasher, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = defaults.TokenLength
	}

	dummyHash, err := hasher.Hash("studentdesk-timing-dummy")
	if err != nil {
		logger.Warn("could not prepare dummy password hash", slog.String("error", err.Error()))
	}

	return &Service{
		users:           users,
		hasher:          hasher,
		clock:           clock,
		random:          random,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		tokenLength:     cfg.TokenLength,
		dummyHash:       dummyHash,
	}
}

// SessionDuration returns how long a new session stays valid
func (s *Service) SessionDuration() time.Duration {
	return s.sessionDuration
}

// Register creates a user account. It does not log the user in.
// Uniqueness is decided by the store, so concurrent registrations of the
// same username yield exactly one success and ErrUsernameExists for the rest.
func (s *Service) Register(ctx context.Context, username, plaintext string) (*model.User, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, model.ErrUsernameExists) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("user_id", int64(user.ID)))
	return user, nil
}

// Login authenticates a user and creates a session.
// An unknown username and a wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, plaintext string) (*Session, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.hasher.Verify(plaintext, s.dummyHash)
			s.logger.Info("login failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.logger.Info("login failed")
		return nil, ErrInvalidCredentials
	}

	session := s.createSession(user)
	s.logger.Info("user logged in", slog.Int64("user_id", int64(user.ID)))
	return session, nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	copied := *session
	return &copied, nil
}

// InvalidateSession removes a session (logout). Unknown tokens are ignored.
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// createSession creates a new session for a user
func (s *Service) createSession(user *model.User) *Session {
	now := s.clock.Now()

	session := &Session{
		Token:     s.random.String(s.tokenLength, random.TokenAlphabet),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	copied := *session
	return &copied
}

// CleanExpiredSessions removes expired sessions and returns how many were removed
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanExpiredSessions every interval until ctx is done
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.CleanExpiredSessions(); removed > 0 {
				s.logger.Debug("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}
