package memory

import (
	"context"
	"sync"

	"github.com/MikhailRaia/shortify/internal/storage"
)

// Storage implements an in-memory Store for tests and throwaway sessions.
type Storage struct {
	values map[string]string
	mutex  sync.RWMutex
}

// NewStorage creates a new in-memory storage instance.
func NewStorage() *Storage {
	return &Storage{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, found := s.values[key]
	return value, found, nil
}

// Set overwrites the value stored under key.
func (s *Storage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *Storage) Delete(_ context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.values, key)
	return nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.values)
}
