// Package inventory caches fetched populations on disk.
//
// Each population is stored as <dir>/<kind>.json in the envelope
//
//	{"timestamp": "...", "data_type": "netbox_devices", "total_count": 2, "data": [...]}
//
// where data holds the raw payloads exactly as fetched (Netbox records
// already carry their interfaces and addresses). A cached run can
// therefore be reconciled again without touching either API.
package inventory
