package report

import (
	"encoding/json"
	"math"
	"time"

	"agent-reconciler/core/reconcile"
)

// DataType is the data_type value of every comparison document.
const DataType = "comparison"

// Document is the persisted comparison result.
type Document struct {
	// Timestamp is the generation time in RFC 3339 form.
	Timestamp string `json:"timestamp"`
	// DataType is always "comparison".
	DataType string `json:"data_type"`
	// Matched lists agents paired with a device or VM, in agent order.
	Matched []MatchedEntry `json:"matched"`
	// UnmatchedAgents holds raw agent payloads.
	UnmatchedAgents []json.RawMessage `json:"unmatched_agents"`
	// UnmatchedDevices holds raw device payloads.
	UnmatchedDevices []json.RawMessage `json:"unmatched_devices"`
	// UnmatchedVMs holds raw VM payloads.
	UnmatchedVMs []json.RawMessage `json:"unmatched_vms"`
	// Summary carries the eight counters computed by the engine.
	Summary reconcile.Summary `json:"summary"`
	// Details breaks the matched list down further.
	Details Details `json:"details"`
	// Diagnostics lists the non-fatal conditions of the run.
	Diagnostics []reconcile.Diagnostic `json:"diagnostics"`
}

// MatchedEntry is one agent and the record it matched.
type MatchedEntry struct {
	Agent         json.RawMessage `json:"agent"`
	MatchedRecord json.RawMessage `json:"matched_record"`
	Basis         reconcile.Basis `json:"basis"`
	Kind          reconcile.Kind  `json:"kind"`
	StatusMatch   bool            `json:"status_match"`
	PlatformMatch bool            `json:"platform_match"`
}

// Details holds the derived statistics of a comparison.
type Details struct {
	MatchType MatchTypeAnalysis `json:"match_type_analysis"`
	Status    StatusAnalysis    `json:"status_analysis"`
	Platform  PlatformAnalysis  `json:"platform_analysis"`
	Coverage  CoverageAnalysis  `json:"coverage_analysis"`
}

type MatchTypeAnalysis struct {
	HostnameMatches int `json:"hostname_matches"`
	IPMatches       int `json:"ip_matches"`
}

type StatusAnalysis struct {
	StatusMatches    int `json:"status_matches"`
	StatusMismatches int `json:"status_mismatches"`
}

type PlatformAnalysis struct {
	PlatformMatches    int `json:"platform_matches"`
	PlatformMismatches int `json:"platform_mismatches"`
}

// CoverageAnalysis relates matched records to the populations.
// Percentages are rounded to two decimals.
type CoverageAnalysis struct {
	TotalInfraItems         int     `json:"total_infra_items"`
	TotalMatched            int     `json:"total_matched"`
	UnmatchedInfraItems     int     `json:"unmatched_infra_items"`
	CoveragePercentage      float64 `json:"coverage_percentage"`
	AgentCoveragePercentage float64 `json:"agent_coverage_percentage"`
}

// Assemble packages a report into its persisted shape. It performs no
// matching and keeps the order of every bucket. Empty buckets become empty
// arrays.
func Assemble(r *reconcile.Report, at time.Time) *Document {
	doc := &Document{
		Timestamp:        at.UTC().Format(time.RFC3339),
		DataType:         DataType,
		Matched:          make([]MatchedEntry, 0, len(r.Matched)),
		UnmatchedAgents:  make([]json.RawMessage, 0, len(r.UnmatchedAgents)),
		UnmatchedDevices: make([]json.RawMessage, 0, len(r.UnmatchedDevices)),
		UnmatchedVMs:     make([]json.RawMessage, 0, len(r.UnmatchedVMs)),
		Summary:          r.Summary,
		Diagnostics:      make([]reconcile.Diagnostic, 0, len(r.Diagnostics)),
	}

	for _, m := range r.Matched {
		doc.Matched = append(doc.Matched, MatchedEntry{
			Agent:         raw(m.Agent.Raw, m.Agent),
			MatchedRecord: raw(m.Record.Raw, m.Record),
			Basis:         m.Basis,
			Kind:          m.Kind,
			StatusMatch:   m.StatusMatch,
			PlatformMatch: m.PlatformMatch,
		})
	}
	for i := range r.UnmatchedAgents {
		doc.UnmatchedAgents = append(doc.UnmatchedAgents, raw(r.UnmatchedAgents[i].Raw, &r.UnmatchedAgents[i]))
	}
	for i := range r.UnmatchedDevices {
		doc.UnmatchedDevices = append(doc.UnmatchedDevices, raw(r.UnmatchedDevices[i].Raw, &r.UnmatchedDevices[i]))
	}
	for i := range r.UnmatchedVMs {
		doc.UnmatchedVMs = append(doc.UnmatchedVMs, raw(r.UnmatchedVMs[i].Raw, &r.UnmatchedVMs[i]))
	}
	doc.Diagnostics = append(doc.Diagnostics, r.Diagnostics...)
	doc.Details = details(r)

	return doc
}

// raw returns the source payload, or the record itself when the source
// payload is missing or not valid JSON.
func raw(payload json.RawMessage, record any) json.RawMessage {
	if len(payload) > 0 && json.Valid(payload) {
		return payload
	}
	b, err := json.Marshal(record)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func details(r *reconcile.Report) Details {
	var d Details
	for _, m := range r.Matched {
		switch m.Basis {
		case reconcile.BasisHostname:
			d.MatchType.HostnameMatches++
		case reconcile.BasisIP:
			d.MatchType.IPMatches++
		}
		if m.StatusMatch {
			d.Status.StatusMatches++
		} else {
			d.Status.StatusMismatches++
		}
		if m.PlatformMatch {
			d.Platform.PlatformMatches++
		} else {
			d.Platform.PlatformMismatches++
		}
	}

	s := r.Summary
	c := &d.Coverage
	c.TotalInfraItems = s.TotalDevices + s.TotalVMs
	c.TotalMatched = s.MatchedWithDevices + s.MatchedWithVMs
	c.UnmatchedInfraItems = s.UnmatchedDevices + s.UnmatchedVMs
	c.CoveragePercentage = percent(c.TotalInfraItems-c.UnmatchedInfraItems, c.TotalInfraItems)
	c.AgentCoveragePercentage = percent(c.TotalMatched, s.TotalAgents)
	return d
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
