package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "output"))
	s.now = func() time.Time { return now }
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	data := []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"srv-01"}`),
		json.RawMessage(`{"id":2,"name":"srv-02"}`),
	}
	saved, err := s.Save(Agents, data)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.TotalCount)

	loaded, err := s.Load(Agents)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-04T10:00:00Z", loaded.Timestamp)
	assert.Equal(t, "nessus_agents", loaded.DataType)
	assert.Equal(t, 2, loaded.TotalCount)
	require.Len(t, loaded.Data, 2)
	assert.JSONEq(t, `{"id":2,"name":"srv-02"}`, string(loaded.Data[1]))

	_, err = os.Stat(filepath.Join(s.Dir(), "nessus_agents.json"))
	assert.NoError(t, err)
}

func TestStore_SaveNil(t *testing.T) {
	s := newTestStore(t, time.Now())

	_, err := s.Save(VMs, nil)
	require.NoError(t, err)

	b, err := os.ReadFile(s.Path(VMs))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data": []`)

	loaded, err := s.Load(VMs)
	require.NoError(t, err)
	assert.NotNil(t, loaded.Data)
	assert.Empty(t, loaded.Data)
}

func TestStore_Load_Missing(t *testing.T) {
	s := newTestStore(t, time.Now())

	_, err := s.Load(Devices)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStore_Load_Corrupt(t *testing.T) {
	s := newTestStore(t, time.Now())
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(Devices), []byte("{"), 0o644))

	_, err := s.Load(Devices)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func TestStore_LoadFresh(t *testing.T) {
	saved := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	s := newTestStore(t, saved)
	_, err := s.Save(Devices, []json.RawMessage{json.RawMessage(`{"id":1}`)})
	require.NoError(t, err)

	s.now = func() time.Time { return saved.Add(30 * time.Minute) }

	snap, err := s.LoadFresh(Devices, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalCount)

	_, err = s.LoadFresh(Devices, 10*time.Minute)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = s.LoadFresh(Devices, 0)
	assert.NoError(t, err)
}
