// Package events announces finished comparison runs on NATS.
//
// New returns Nop when events are disabled, so callers publish
// unconditionally. Subjects are prefixed with Config.SubjectPrefix.
package events
