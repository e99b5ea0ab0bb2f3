package repository

import (
	"fmt"
	"sync"

	"online-auction/internal/biddingerrors"
	model "online-auction/internal/models"
)

// SessionDB defines bearer session storage
type SessionDB interface {
	SaveSession(session model.Session) error
	GetSession(token string) (model.Session, error)
	DeleteSession(token string) error
}

// MemorySessionStore is a concurrency-safe in-memory SessionDB
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session // key: token -> value: session
}

// NewMemorySessionStore creates an empty session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]model.Session),
	}
}

// SaveSession stores or replaces a session
func (s *MemorySessionStore) SaveSession(session model.Session) error {
	if session.Token == "" {
		return fmt.Errorf("save session: %w - empty token", biddingerrors.ErrUnauthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

// GetSession returns the session for token
func (s *MemorySessionStore) GetSession(token string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return model.Session{}, fmt.Errorf("get session: %w", biddingerrors.ErrUnauthenticated)
	}
	return session, nil
}

// DeleteSession removes token. Deleting an unknown token is not an error.
func (s *MemorySessionStore) DeleteSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
