package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MikhailRaia/shortify/internal/storage"
)

// Storage implements Store backed by a single JSON document on disk.
// Every write rewrites the document through a temp file and a rename, so a
// reader never sees a half-written value. Writes are serialised by
// fileWriteMu from snapshot to rename, so the file always holds the latest
// acknowledged state.
type Storage struct {
	filePath    string
	values      map[string]string
	mu          sync.RWMutex
	fileWriteMu sync.Mutex
}

// NewStorage creates a file-backed storage at the provided path.
func NewStorage(filePath string) (*Storage, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Storage{
		filePath: filePath,
		values:   make(map[string]string),
	}

	if err := s.loadFromFile(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.values[key]
	return value, found, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	s.mu.Lock()
	previous, existed := s.values[key]
	s.values[key] = value
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.saveToFile(snapshot); err != nil {
		s.mu.Lock()
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}
		s.mu.Unlock()
		return err
	}

	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	s.mu.Lock()
	if _, exists := s.values[key]; !exists {
		s.mu.Unlock()
		return nil
	}
	delete(s.values, key)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.saveToFile(snapshot)
}

// Ping checks that the storage directory is still reachable.
func (s *Storage) Ping(context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) snapshotLocked() map[string]string {
	snapshot := make(map[string]string, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}

func (s *Storage) loadFromFile() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return fmt.Errorf("failed to unmarshal storage file: %w", err)
	}

	if s.values == nil {
		s.values = make(map[string]string)
	}

	return nil
}

// saveToFile must be called with s.fileWriteMu held.
func (s *Storage) saveToFile(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), filepath.Base(s.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	return nil
}
