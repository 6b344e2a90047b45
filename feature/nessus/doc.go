// Package nessus fetches scanner agents from a Nessus server.
//
// The Client authenticates with the X-ApiKeys header and exposes the three
// endpoints the reconciler needs:
//
//   - GET /server/properties : connection test
//   - GET /agents            : agent list
//   - GET /agents/{id}       : agent details
//
// The Service combines them. FetchRaw returns the untouched payloads
// (details replacing list entries when enabled), and ToRecords converts
// payloads into reconcile.AgentRecord values with normalized status,
// groups, last-seen time and connection addresses.
package nessus
