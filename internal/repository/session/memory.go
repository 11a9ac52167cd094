package session

import (
	"context"
	"sync"
	"time"

	"trek-storefront/internal/domain"
)

type memoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemory returns a process-local Repository. Sessions are lost on restart.
func NewMemory() Repository {
	return &memoryRepo{sessions: make(map[string]Session)}
}

func (r *memoryRepo) Create(_ context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.Token]; ok {
		return domain.ErrAlreadyExists
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sessions[s.Token] = s
	return nil
}

func (r *memoryRepo) Get(_ context.Context, token string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memoryRepo) Update(_ context.Context, token, backendCookie string, customerID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return domain.ErrNotFound
	}
	s.BackendCookie = backendCookie
	s.CustomerID = customerID
	s.UpdatedAt = time.Now()
	r.sessions[token] = s
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, token)
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}
