// Package store provides session storage for MindGuide.
//
// Sessions live only in process memory for the duration of one conversation;
// there is no durable backend and no sharing across sessions.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/BTreeMap/MindGuide/internal/models"
)

// ErrSessionNotFound indicates the requested session does not exist or has
// been evicted.
var ErrSessionNotFound = errors.New("session not found")

// Default janitor configuration
const (
	// DefaultSessionTTL is how long an idle session survives before eviction.
	DefaultSessionTTL = 30 * time.Minute
	// DefaultSweepInterval is how often the janitor scans for idle sessions.
	DefaultSweepInterval = 5 * time.Minute
)

// Store defines the session persistence operations used by the orchestrator.
type Store interface {
	SaveSession(sess *models.Session) error
	GetSession(id string) (*models.Session, error)
	DeleteSession(id string) error
}

// Opts holds store configuration.
type Opts struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// Option configures store construction.
type Option func(*Opts)

// WithSessionTTL overrides how long idle sessions are retained.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.SessionTTL = ttl }
}

// WithSweepInterval overrides how often the janitor runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(o *Opts) { o.SweepInterval = interval }
}

// InMemoryStore keeps sessions in a mutex-guarded map. Values are cloned on
// the way in and out so no caller ever observes concurrent mutation.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	opts     Opts
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore(options ...Option) *InMemoryStore {
	opts := Opts{SessionTTL: DefaultSessionTTL, SweepInterval: DefaultSweepInterval}
	for _, opt := range options {
		opt(&opts)
	}
	return &InMemoryStore{
		sessions: make(map[string]*models.Session),
		opts:     opts,
	}
}

// SaveSession stores a copy of the session, overwriting any previous state.
func (s *InMemoryStore) SaveSession(sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// GetSession returns a copy of the stored session.
func (s *InMemoryStore) GetSession(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// DeleteSession removes the session. Deleting a missing session is not an
// error; the caller's intent is already satisfied.
func (s *InMemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
