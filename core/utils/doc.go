// Package utils provides loose type conversion helpers for decoding the
// untyped JSON payloads returned by the Nessus and Netbox APIs.
package utils
