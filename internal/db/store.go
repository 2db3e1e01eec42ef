package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/balkashynov/ssp/internal/models"
)

// Keys of the three persisted slots
const (
	TasksKey    = "ssp_tasks_v1"
	SessionsKey = "ssp_sessions_v1"
	SettingsKey = "ssp_settings_v1"
)

// ErrPersistence marks storage read/write failures
var ErrPersistence = errors.New("persistence failure")

// Backend is the key-value primitive the store writes through
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Keys() ([]string, error)
	Close() error
}

// PersistenceError records a failed save
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Snapshot is the full persisted state
type Snapshot struct {
	Tasks    []models.Task    `json:"tasks"`
	Sessions []models.Session `json:"sessions"`
	Settings models.Settings  `json:"settings"`
}

// Store is the only gateway between in-memory state and the backend.
// Every save writes the full value for its key; the last write wins.
type Store struct {
	backend Backend
	log     *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// NewStore wraps a backend
func NewStore(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, log: log}
}

// Load decodes the value under key into dst and reports whether it did.
// Missing keys, read errors and malformed data leave dst untouched.
func (s *Store) Load(key string, dst any) bool {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		s.log.Warn("read failed, using fallback", "key", key, "error", err)
		return false
	}
	if !ok || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("malformed data, using fallback", "key", key, "error", err)
		return false
	}
	return true
}

// Load returns the value stored under key or fallback
func Load[T any](s *Store, key string, fallback T) T {
	var v T
	if !s.Load(key, &v) {
		return fallback
	}
	return v
}

// Save serializes v under key. Failures are logged and kept for LastError,
// never returned.
func (s *Store) Save(key string, v any) {
	s.record(key, s.write(key, v))
}

func (s *Store) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.backend.Set(key, raw)
}

func (s *Store) record(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = &PersistenceError{Op: "save", Key: key, Err: err}
		s.log.Warn("save failed", "key", key, "error", err)
		return
	}
	s.lastErr = nil
}

// LastError returns the error of the most recent save, nil if it succeeded
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LoadSnapshot reads all three slots
func (s *Store) LoadSnapshot() Snapshot {
	snap := Snapshot{
		Tasks:    Load(s, TasksKey, []models.Task{}),
		Sessions: Load(s, SessionsKey, []models.Session{}),
		Settings: Load(s, SettingsKey, models.DefaultSettings()),
	}
	if snap.Tasks == nil {
		snap.Tasks = []models.Task{}
	}
	if snap.Sessions == nil {
		snap.Sessions = []models.Session{}
	}
	return snap
}

// SaveSnapshot writes all three slots. The first failure is recorded.
func (s *Store) SaveSnapshot(snap Snapshot) {
	slots := []struct {
		key string
		v   any
	}{
		{TasksKey, snap.Tasks},
		{SessionsKey, snap.Sessions},
		{SettingsKey, snap.Settings},
	}

	var failedKey string
	var failed error
	for _, slot := range slots {
		if err := s.write(slot.key, slot.v); err != nil && failed == nil {
			failedKey, failed = slot.key, err
		}
	}
	s.record(failedKey, failed)
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
