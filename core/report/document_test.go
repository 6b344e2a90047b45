package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agent-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func fixture(t *testing.T) *reconcile.Report {
	t.Helper()
	agents := []reconcile.AgentRecord{
		{ID: "1", Name: "srv-01", Status: reconcile.AgentOnline, Platform: "LINUX", IPs: []string{"10.0.0.5"},
			Raw: json.RawMessage(`{"id":1,"name":"srv-01","ip":"10.0.0.5"}`)},
		{ID: "2", Name: "srv-99", Status: reconcile.AgentOffline, IPs: []string{"10.0.0.8"}},
		{ID: "3", Name: "ghost", IPs: []string{"999.999.999.999"},
			Raw: json.RawMessage(`{"id":3,"name":"ghost"}`)},
	}
	devices := []reconcile.InfraRecord{
		{ID: "10", Kind: reconcile.KindDevice, Name: "SRV-01.corp.local", Status: reconcile.InfraActive, Platform: "linux",
			Raw: json.RawMessage(`{"id":10,"name":"SRV-01.corp.local"}`)},
		{ID: "11", Kind: reconcile.KindDevice, Name: "switch-01"},
	}
	vms := []reconcile.InfraRecord{
		{ID: "20", Kind: reconcile.KindVM, Name: "app-01", IPs: []string{"10.0.0.8"}},
	}

	r, err := reconcile.Reconcile(agents, devices, vms)
	require.NoError(t, err)
	return r
}

func TestAssemble(t *testing.T) {
	doc := Assemble(fixture(t), at)

	assert.Equal(t, "2026-03-01T12:30:00Z", doc.Timestamp)
	assert.Equal(t, "comparison", doc.DataType)

	require.Len(t, doc.Matched, 2)
	assert.JSONEq(t, `{"id":1,"name":"srv-01","ip":"10.0.0.5"}`, string(doc.Matched[0].Agent))
	assert.JSONEq(t, `{"id":10,"name":"SRV-01.corp.local"}`, string(doc.Matched[0].MatchedRecord))
	assert.Equal(t, reconcile.BasisHostname, doc.Matched[0].Basis)
	assert.Equal(t, reconcile.KindDevice, doc.Matched[0].Kind)
	assert.True(t, doc.Matched[0].StatusMatch)
	assert.True(t, doc.Matched[0].PlatformMatch)

	assert.Equal(t, reconcile.BasisIP, doc.Matched[1].Basis)
	assert.Equal(t, reconcile.KindVM, doc.Matched[1].Kind)

	require.Len(t, doc.UnmatchedAgents, 1)
	assert.JSONEq(t, `{"id":3,"name":"ghost"}`, string(doc.UnmatchedAgents[0]))
	require.Len(t, doc.UnmatchedDevices, 1)
	assert.Contains(t, string(doc.UnmatchedDevices[0]), `"switch-01"`)
	assert.Empty(t, doc.UnmatchedVMs)

	assert.Equal(t, reconcile.Summary{
		TotalAgents: 3, TotalDevices: 2, TotalVMs: 1,
		MatchedWithDevices: 1, MatchedWithVMs: 1,
		UnmatchedAgents: 1, UnmatchedDevices: 1,
	}, doc.Summary)
	assert.Len(t, doc.Diagnostics, 1)
}

func TestAssemble_Details(t *testing.T) {
	d := Assemble(fixture(t), at).Details

	assert.Equal(t, MatchTypeAnalysis{HostnameMatches: 1, IPMatches: 1}, d.MatchType)
	assert.Equal(t, StatusAnalysis{StatusMatches: 1, StatusMismatches: 1}, d.Status)
	assert.Equal(t, PlatformAnalysis{PlatformMatches: 1, PlatformMismatches: 1}, d.Platform)
	assert.Equal(t, CoverageAnalysis{
		TotalInfraItems:         3,
		TotalMatched:            2,
		UnmatchedInfraItems:     1,
		CoveragePercentage:      66.67,
		AgentCoveragePercentage: 66.67,
	}, d.Coverage)
}

// TestAssemble_EmptyBuckets tests that empty buckets encode as arrays.
func TestAssemble_EmptyBuckets(t *testing.T) {
	r, err := reconcile.Reconcile([]reconcile.AgentRecord{}, []reconcile.InfraRecord{}, []reconcile.InfraRecord{})
	require.NoError(t, err)

	b, err := Marshal(Assemble(r, at))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	for _, key := range []string{"matched", "unmatched_agents", "unmatched_devices", "unmatched_vms", "diagnostics"} {
		assert.Equal(t, []any{}, generic[key], key)
	}
	assert.NotContains(t, string(b), "null")
}

// TestAssemble_Deterministic tests that two runs over the same inputs
// produce byte-identical documents.
func TestAssemble_Deterministic(t *testing.T) {
	first, err := Marshal(Assemble(fixture(t), at))
	require.NoError(t, err)
	second, err := Marshal(Assemble(fixture(t), at))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "comparison_results.json")
	doc := Assemble(fixture(t), at)

	require.NoError(t, WriteFile(path, doc))

	var loaded Document
	require.NoError(t, ReadFile(path, &loaded))
	assert.Equal(t, doc.Summary, loaded.Summary)
	assert.Equal(t, doc.Timestamp, loaded.Timestamp)
	assert.Len(t, loaded.Matched, 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadFile_Missing(t *testing.T) {
	var doc Document
	err := ReadFile(filepath.Join(t.TempDir(), "absent.json"), &doc)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
