package authstore

import (
	"context"
	"sync"
)

// MemoryStore keeps credentials for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	creds *Credentials
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil, ErrNoCredentials
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, creds *Credentials) error {
	c := *creds
	s.mu.Lock()
	s.creds = &c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.creds = nil
	s.mu.Unlock()
	return nil
}
