package nessus

import (
	"encoding/json"
	"testing"
	"time"

	"agent-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecord(t *testing.T) {
	t.Run("Full payload", func(t *testing.T) {
		raw := json.RawMessage(`{
			"id": 1043,
			"name": "SRV-01.corp.local",
			"ip": "10.0.0.5",
			"platform": "LINUX",
			"status": "Online",
			"last_connect": 1700000000,
			"groups": ["linux", {"name": "prod"}, {"id": 3}],
			"core_version": "10.4.1"
		}`)

		rec, err := ToRecord(raw)
		require.NoError(t, err)

		assert.Equal(t, "1043", rec.ID)
		assert.Equal(t, "SRV-01.corp.local", rec.Name)
		assert.Equal(t, reconcile.AgentOnline, rec.Status)
		assert.Equal(t, "LINUX", rec.Platform)
		assert.Equal(t, []string{"linux", "prod"}, rec.Groups)
		assert.Equal(t, []string{"10.0.0.5"}, rec.IPs)
		require.NotNil(t, rec.LastSeen)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), *rec.LastSeen)
		assert.JSONEq(t, string(raw), string(rec.Raw))
	})

	t.Run("Minimal payload", func(t *testing.T) {
		rec, err := ToRecord(json.RawMessage(`{"id":"a-7","name":"web","status":"initializing"}`))
		require.NoError(t, err)

		assert.Equal(t, "a-7", rec.ID)
		assert.Equal(t, reconcile.AgentUnknown, rec.Status)
		assert.Nil(t, rec.LastSeen)
		assert.Empty(t, rec.IPs)
		assert.NotNil(t, rec.Groups)
	})

	t.Run("Undecodable payload", func(t *testing.T) {
		_, err := ToRecord(json.RawMessage(`[1,2]`))
		assert.Error(t, err)
	})
}

func TestAddresses(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"Missing", nil, []string{}},
		{"Single", "10.0.0.1", []string{"10.0.0.1"}},
		{"Comma separated", "10.0.0.1, 10.0.0.2", []string{"10.0.0.1", "10.0.0.2"}},
		{"List", []any{"10.0.0.1", " 10.0.0.3 "}, []string{"10.0.0.1", "10.0.0.3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addresses(tt.in))
		})
	}
}

func TestToRecords_KeepsOrderAndBadPayloads(t *testing.T) {
	recs := ToRecords([]json.RawMessage{
		json.RawMessage(`{"id":1,"name":"a"}`),
		json.RawMessage(`"oops"`),
		json.RawMessage(`{"id":2,"name":"b"}`),
	})

	require.Len(t, recs, 3)
	assert.Equal(t, "1", recs[0].ID)
	assert.Empty(t, recs[1].ID)
	assert.Equal(t, `"oops"`, string(recs[1].Raw))
	assert.Equal(t, "2", recs[2].ID)
}

func TestStats(t *testing.T) {
	st := Stats([]json.RawMessage{
		json.RawMessage(`{"status":"online","platform":"LINUX","core_version":"10.4"}`),
		json.RawMessage(`{"status":"online","platform":"WINDOWS","version":"10.3"}`),
		json.RawMessage(`{"status":"offline"}`),
	})

	assert.Equal(t, 3, st.TotalAgents)
	assert.Equal(t, map[string]int{"online": 2, "offline": 1}, st.ByStatus)
	assert.Equal(t, map[string]int{"LINUX": 1, "WINDOWS": 1, "unknown": 1}, st.ByPlatform)
	assert.Equal(t, map[string]int{"10.4": 1, "10.3": 1, "unknown": 1}, st.ByVersion)
}
