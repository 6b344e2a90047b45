// Package storage archives comparison documents in S3 compatible object
// storage through the MinIO client.
//
// Client is the narrow MinIO surface in use; mocks.Client stands in for it
// in tests. Archive lays documents out as
//
//	<prefix>/runs/<run-id>.json
//	<prefix>/latest.json
//
// and prunes runs beyond Config.Retain after every upload.
package storage
