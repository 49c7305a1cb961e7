// Package session keeps the logged-in user's token between portal calls.
// It is set at login, cleared at logout and cleared when the backend answers 401.
package session

import (
	"context"
	"errors"
	"sync"

	"labportal/internal/models"
)

// ErrNoSession is returned by Get when nobody is logged in or the token expired.
var ErrNoSession = errors.New("no active session")

// Store is the session collaborator injected into the API client and actions.
type Store interface {
	Get(ctx context.Context) (*models.Session, error)
	Set(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

// MemoryStore holds the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	current *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || m.current.IsExpired() {
		return nil, ErrNoSession
	}
	cp := *m.current
	return &cp, nil
}

func (m *MemoryStore) Set(ctx context.Context, s *models.Session) error {
	if s == nil {
		return m.Clear(ctx)
	}
	cp := *s
	m.mu.Lock()
	m.current = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}
