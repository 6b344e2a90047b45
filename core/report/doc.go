// Package report turns a reconciliation report into the persisted
// comparison document.
//
// The document shape is the contract consumed by anything downstream of a
// comparison run (search, rendering, archival):
//
//	{
//	  "timestamp": "2026-01-02T15:04:05Z",
//	  "data_type": "comparison",
//	  "matched": [{"agent": {...}, "matched_record": {...}, "basis": "hostname", ...}],
//	  "unmatched_agents": [...],
//	  "unmatched_devices": [...],
//	  "unmatched_vms": [...],
//	  "summary": {"total_agents": 0, ...},
//	  "details": {...},
//	  "diagnostics": [...]
//	}
//
// Buckets carry the raw source payloads and are never null. Encoding the
// same report with the same timestamp always yields the same bytes.
//
// # Usage
//
//	doc := report.Assemble(r, time.Now())
//	if err := report.WriteFile("output/comparison_results.json", doc); err != nil {
//	    return err
//	}
package report
