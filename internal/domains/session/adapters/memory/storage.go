// Package memory is an in-memory TokenStorage for tests and for runs where
// durable storage is unavailable.
package memory

import "sync"

type Storage struct {
	mu    sync.Mutex
	token string
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *Storage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
