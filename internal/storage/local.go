package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LocalStore implements Backend with one file per key in a directory.
type LocalStore struct {
	mu  sync.RWMutex
	dir string
}

// NewLocalStore creates a LocalStore, creating dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the file for key.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes the value to a temp file and renames it over the old one so
// a reader never sees a half-written file.
func (s *LocalStore) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	final := s.path(key)
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, value, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (s *LocalStore) Close() error {
	return nil
}

// Dir returns the directory holding the files.
func (s *LocalStore) Dir() string {
	return s.dir
}
