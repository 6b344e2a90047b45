package reconcile

import (
	"encoding/json"
	"time"
)

// Kind tags which population a record belongs to.
type Kind string

const (
	// KindAgent is a host monitored by the vulnerability scanner.
	KindAgent Kind = "agent"
	// KindDevice is a physical asset recorded in the infrastructure system.
	KindDevice Kind = "device"
	// KindVM is a virtual machine recorded in the infrastructure system.
	KindVM Kind = "vm"
)

// AgentStatus is the scanner-side connectivity state of an agent.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentOffline AgentStatus = "offline"
	AgentUnknown AgentStatus = "unknown"
)

// InfraStatus is the lifecycle state of a device or VM, reduced from the
// source vocabulary.
type InfraStatus string

const (
	InfraActive  InfraStatus = "active"
	InfraOffline InfraStatus = "offline"
	InfraUnknown InfraStatus = "unknown"
)

// AgentRecord is a scanner agent as fetched from the scanner API.
// Records are treated as immutable once handed to Reconcile.
type AgentRecord struct {
	// ID is the scanner's opaque agent identifier.
	ID string `json:"id"`

	// Name is the hostname-like name the agent reports.
	Name string `json:"name"`

	// Status is the normalized agent status.
	Status AgentStatus `json:"status"`

	// Platform is the operating system family reported by the agent.
	Platform string `json:"platform"`

	// LastSeen is the last time the agent connected, if known.
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Groups lists the agent group memberships in source order.
	Groups []string `json:"groups"`

	// IPs are the connection addresses reported for the agent.
	IPs []string `json:"ips"`

	// Raw is the untouched source payload, carried into reports.
	Raw json.RawMessage `json:"-"`
}

// InfraRecord is a device or virtual machine from the infrastructure system.
type InfraRecord struct {
	// ID is the infrastructure system's identifier.
	ID string `json:"id"`

	// Kind is either KindDevice or KindVM.
	Kind Kind `json:"kind"`

	// Name is the record name.
	Name string `json:"name"`

	// Status is the normalized lifecycle status.
	Status InfraStatus `json:"status"`

	// Site is the site name, if any.
	Site string `json:"site,omitempty"`

	// Platform is the platform name, if any.
	Platform string `json:"platform,omitempty"`

	// IPs is the deduplicated set of addresses across all interfaces,
	// without CIDR suffixes.
	IPs []string `json:"ips"`

	// DNSNames are DNS names attached to the record's IP addresses.
	DNSNames []string `json:"dns_names,omitempty"`

	// Raw is the untouched source payload, carried into reports.
	Raw json.RawMessage `json:"-"`
}

// Identity is the comparable shape every record is projected to.
// It is derived from a record and never persisted.
type Identity struct {
	Kind      Kind
	ID        string
	Hostnames []string
	IPs       []string

	// Skipped marks records that cannot take part in matching
	// (for example a missing identifier).
	Skipped bool
}

// Basis is the signal that produced a match.
type Basis string

const (
	BasisHostname Basis = "hostname"
	BasisIP       Basis = "ip"
	BasisNone     Basis = "none"
)

// MatchResult pairs one agent with at most one infrastructure record.
type MatchResult struct {
	Agent *AgentRecord
	// Record is nil when Basis is BasisNone.
	Record *InfraRecord
	Basis  Basis
	// Kind is the matched record's kind, empty when unmatched.
	Kind Kind

	// StatusMatch is true when the agent is online and the record active.
	StatusMatch bool
	// PlatformMatch is true when both sides name the same platform.
	PlatformMatch bool
}

// Summary holds the eight comparison counters. It is only ever computed
// by the engine, so the partition invariant
// MatchedWithDevices + MatchedWithVMs + UnmatchedAgents == TotalAgents holds.
type Summary struct {
	TotalAgents        int `json:"total_agents"`
	TotalDevices       int `json:"total_devices"`
	TotalVMs           int `json:"total_vms"`
	MatchedWithDevices int `json:"matched_with_devices"`
	MatchedWithVMs     int `json:"matched_with_vms"`
	UnmatchedAgents    int `json:"unmatched_agents"`
	UnmatchedDevices   int `json:"unmatched_devices"`
	UnmatchedVMs       int `json:"unmatched_vms"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	// Matched holds results with a basis other than BasisNone, in agent order.
	Matched []MatchResult

	// UnmatchedAgents holds agents that matched nothing, in input order.
	UnmatchedAgents []AgentRecord

	// UnmatchedDevices holds devices no agent matched, in input order.
	UnmatchedDevices []InfraRecord

	// UnmatchedVMs holds VMs no agent matched, in input order.
	UnmatchedVMs []InfraRecord

	// Summary is derived from the partitions above.
	Summary Summary

	// Diagnostics collects the non-fatal conditions seen during the run.
	Diagnostics []Diagnostic
}
