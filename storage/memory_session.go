package storage

import (
	"context"
	"sync"
	"time"

	"analytics-dashboard/models"
)

// MemorySessionStore keeps sessions in process memory. It is safe for
// concurrent use and hands out copies, so one session can never observe
// another's mutations.
type MemorySessionStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	sessions  map[string]*models.Session
	lastSweep time.Time
}

// NewMemorySessionStore creates an empty store. Sessions idle longer than
// ttl are dropped on access and swept on Save at most once per ttl; a zero
// ttl keeps them forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, sessions: make(map[string]*models.Session), lastSweep: time.Now()}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if s.expired(sess, time.Now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, nil
	}
	return sess.Clone(), nil
}

func (s *MemorySessionStore) Save(_ context.Context, sess *models.Session) error {
	now := time.Now()
	c := sess.Clone()
	c.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}
	s.sessions[c.ID] = c
	return nil
}

// sweep drops every expired session. Callers hold the write lock.
func (s *MemorySessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func (s *MemorySessionStore) expired(sess *models.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.UpdatedAt) > s.ttl
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Size returns the number of sessions held.
func (s *MemorySessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) Close() error { return nil }
