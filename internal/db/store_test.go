package db

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/ssp/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStore_LoadFallbacks(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, quietLogger())

	snap := store.LoadSnapshot()
	assert.Empty(t, snap.Tasks)
	assert.NotNil(t, snap.Tasks)
	assert.Empty(t, snap.Sessions)
	assert.Equal(t, models.DefaultSettings(), snap.Settings)

	require.NoError(t, backend.Set(TasksKey, []byte("{not json")))
	tasks := Load(store, TasksKey, []models.Task{{ID: "fallback"}})
	require.Len(t, tasks, 1)
	assert.Equal(t, "fallback", tasks[0].ID)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	store := NewStore(NewMemoryBackend(), quietLogger())
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	store.Save(TasksKey, []models.Task{{ID: "t1", Subject: "Math", Title: "Ch. 4", CreatedAt: created, Priority: models.PriorityHigh}})
	require.NoError(t, store.LastError())

	tasks := Load(store, TasksKey, []models.Task{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "Math", tasks[0].Subject)
	assert.True(t, created.Equal(tasks[0].CreatedAt))
}

func TestStore_SaveFailureIsObservable(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, quietLogger())

	backend.FailWrites(true)
	store.Save(SettingsKey, models.DefaultSettings())

	err := store.LastError()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, SettingsKey, perr.Key)

	backend.FailWrites(false)
	store.Save(SettingsKey, models.DefaultSettings())
	assert.NoError(t, store.LastError())
}

func TestStore_SaveSnapshotKeepsFirstFailure(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, quietLogger())

	backend.FailWrites(true)
	store.SaveSnapshot(Snapshot{Settings: models.DefaultSettings()})

	var perr *PersistenceError
	require.True(t, errors.As(store.LastError(), &perr))
	assert.Equal(t, TasksKey, perr.Key)
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ssp.db")

	backend, err := OpenSQLite(path)
	require.NoError(t, err)

	_, ok, err := backend.Get(TasksKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Set(TasksKey, []byte(`[]`)))
	require.NoError(t, backend.Set(TasksKey, []byte(`[{"id":"a"}]`)))
	require.NoError(t, backend.Set(SettingsKey, []byte(`{"focusMinutes":50}`)))

	raw, ok, err := backend.Get(TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a"}]`, string(raw))

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{SettingsKey, TasksKey}, keys)
	require.NoError(t, backend.Close())

	// Reopen and read back through a store
	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	store := NewStore(reopened, quietLogger())
	settings := Load(store, SettingsKey, models.DefaultSettings())
	assert.Equal(t, 50, settings.FocusMinutes)
}
