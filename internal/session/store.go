package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/evolvedu/internal/errors"
	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/storage"
)

// Store is the single owner of the session. It mirrors the persisted token
// and user in memory and writes every change through to storage before
// returning.
//
// The token and user are always present together or absent together, both
// in memory and on disk. A partially persisted session found by Load is
// discarded.
type Store struct {
	kv     storage.KV
	logger *log.Logger

	mu      sync.RWMutex
	current Session
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage problems.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty Store backed by kv. Call Load to pick up a
// previously persisted session.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.OrDefault(s.logger).With("component", "session")
	return s
}

// Load restores the persisted session. If both keys are present and the
// user decodes, the session becomes active. Anything else leaves the store
// empty and removes whatever partial state was found.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}

	token, hasToken, err := s.kv.Get(KeyToken)
	if err != nil {
		s.logger.WithError(err).Warn("failed to read session token")
		return
	}
	rawUser, hasUser, err := s.kv.Get(KeyUser)
	if err != nil {
		s.logger.WithError(err).Warn("failed to read session user")
		return
	}

	if !hasToken && !hasUser {
		return
	}

	if hasToken && hasUser && token != "" {
		var user *UserProfile
		err := json.Unmarshal([]byte(rawUser), &user)
		if err == nil && user == nil {
			err = fmt.Errorf("stored user is null")
		}
		if err == nil {
			s.current = Session{Token: token, User: user}
			s.logger.Debug("session restored", "user_id", user.ID)
			return
		}
		s.logger.WithError(err).Warn("discarding session with unreadable user")
	} else {
		s.logger.Warn("discarding partial session", "has_token", hasToken, "has_user", hasUser)
	}

	if err := s.removeAll(); err != nil {
		s.logger.WithError(err).Warn("failed to remove partial session")
	}
}

// Set persists a new session and makes it current. A failed write leaves
// nothing partial in storage.
func (s *Store) Set(token string, user *UserProfile) error {
	if token == "" {
		return errors.NewSessionInvalidError("token cannot be empty")
	}
	if user == nil {
		return errors.NewSessionInvalidError("user cannot be nil")
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return errors.NewSessionWriteError(KeyUser, fmt.Errorf("encode user: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(KeyUser, string(encoded)); err != nil {
		return errors.NewSessionWriteError(KeyUser, err)
	}
	if err := s.kv.Set(KeyToken, token); err != nil {
		if rbErr := s.removeAll(); rbErr != nil {
			s.logger.WithError(rbErr).Warn("failed to roll back session write")
		}
		s.current = Session{}
		return errors.NewSessionWriteError(KeyToken, err)
	}

	copied := *user
	s.current = Session{Token: token, User: &copied}
	return nil
}

// Clear removes the session from memory and storage. Clearing an empty
// store succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}
	if err := s.removeAll(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionWrite, "failed to clear session", err).
			WithSuggestion(fmt.Sprintf("Check permissions on %s", s.location()))
	}
	return nil
}

// Get returns the current session and whether one is active.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Active() {
		return Session{}, false
	}
	copied := *s.current.User
	return Session{Token: s.current.Token, User: &copied}, true
}

// Token returns the current bearer token.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token, s.current.Token != ""
}

// User returns a copy of the current user.
func (s *Store) User() (*UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil, false
	}
	copied := *s.current.User
	return &copied, true
}

// removeAll deletes both keys, attempting the second even if the first fails.
// Callers hold s.mu.
func (s *Store) removeAll() error {
	tokenErr := s.kv.Remove(KeyToken)
	userErr := s.kv.Remove(KeyUser)
	if tokenErr != nil {
		return tokenErr
	}
	return userErr
}

func (s *Store) location() string {
	if f, ok := s.kv.(*storage.FileKV); ok {
		return f.Dir()
	}
	return "session storage"
}
