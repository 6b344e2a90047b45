// Package comparison runs reconciliations of Nessus agents against Netbox
// devices and VMs and serves their results.
//
// A run loads the three populations concurrently, from snapshots when
// output.prefer_cache allows it, hands them to core/reconcile and writes
// comparison_results.json. Afterwards it optionally archives the document
// to object storage, records a history row and publishes
// comparison.completed on NATS. Those follow-ups only log on failure.
//
// # HTTP Endpoints
//
//   - POST /comparison/run : runs a comparison (?no_cache, ?strategy, ?upload).
//   - GET /comparison/latest : newest comparison document.
//   - GET /comparison/history : recorded runs (?limit).
//   - GET /comparison/search/:ip : agents, devices and VMs carrying an IP.
//
// Scheduler repeats runs every comparison.schedule_interval_minutes while
// the server is up.
package comparison
