// memory_store.go - In-memory storage backend for testing
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/urban-jungle/backend/internal/storage"
)

// ErrInjected is returned by MemoryStore when a failure was requested.
var ErrInjected = errors.New("injected storage failure")

// MemoryStore implements storage.Backend in memory
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	puts    int
	failGet map[string]bool
	failPut map[string]bool
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string][]byte),
		failGet: make(map[string]bool),
		failPut: make(map[string]bool),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failGet[key] {
		return nil, false, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut[key] {
		return ErrInjected
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.puts++
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements storage.Backend
var _ storage.Backend = (*MemoryStore)(nil)

// Test Helper Methods

// Set stores a raw value without counting it as a put
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored value for key
func (m *MemoryStore) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Puts returns how many successful writes happened
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// FailGet makes reads of key fail
func (m *MemoryStore) FailGet(key string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet[key] = fail
}

// FailPut makes writes of key fail
func (m *MemoryStore) FailPut(key string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPut[key] = fail
}
