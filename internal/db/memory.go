package db

import (
	"errors"
	"sort"
	"sync"
)

// errWriteRefused is returned by a MemoryBackend told to fail writes
var errWriteRefused = errors.New("memory backend: write refused")

// MemoryBackend keeps entries in a map. Used by tests and --memory runs.
type MemoryBackend struct {
	mu         sync.Mutex
	data       map[string][]byte
	failWrites bool
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key
func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key
func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errWriteRefused
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Keys lists every stored key
func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// FailWrites makes every following Set fail until turned off again
func (m *MemoryBackend) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrites = fail
	m.mu.Unlock()
}

// Close is a no-op
func (m *MemoryBackend) Close() error { return nil }
