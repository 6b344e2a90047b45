package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agent-reconciler/core/report"
)

// Kind names a cached population. It doubles as the data_type of the
// snapshot and the file name.
type Kind string

const (
	Agents  Kind = "nessus_agents"
	Devices Kind = "netbox_devices"
	VMs     Kind = "netbox_vms"
)

// Kinds lists every cached population.
var Kinds = []Kind{Agents, Devices, VMs}

// ErrNoSnapshot is returned by Load when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot is one cached population.
type Snapshot struct {
	Timestamp  string            `json:"timestamp"`
	DataType   string            `json:"data_type"`
	TotalCount int               `json:"total_count"`
	Data       []json.RawMessage `json:"data"`
}

// Time parses the snapshot timestamp.
func (s *Snapshot) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, s.Timestamp)
}

// Store keeps snapshots as JSON files in one directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of kind.
func (s *Store) Path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Save writes data as the snapshot of kind. A nil data slice is stored as
// an empty list.
func (s *Store) Save(kind Kind, data []json.RawMessage) (*Snapshot, error) {
	if data == nil {
		data = make([]json.RawMessage, 0)
	}
	snap := &Snapshot{
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		DataType:   string(kind),
		TotalCount: len(data),
		Data:       data,
	}
	if err := report.WriteFile(s.Path(kind), snap); err != nil {
		return nil, fmt.Errorf("failed to save %s snapshot: %w", kind, err)
	}
	return snap, nil
}

// Load reads the snapshot of kind. It returns ErrNoSnapshot when the file
// does not exist.
func (s *Store) Load(kind Kind) (*Snapshot, error) {
	var snap Snapshot
	if err := report.ReadFile(s.Path(kind), &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", kind, ErrNoSnapshot)
		}
		return nil, fmt.Errorf("failed to load %s snapshot: %w", kind, err)
	}
	if snap.Data == nil {
		snap.Data = make([]json.RawMessage, 0)
	}
	return &snap, nil
}

// LoadFresh is Load that also treats snapshots older than maxAge as
// missing. A zero maxAge accepts any age.
func (s *Store) LoadFresh(kind Kind, maxAge time.Duration) (*Snapshot, error) {
	snap, err := s.Load(kind)
	if err != nil || maxAge <= 0 {
		return snap, err
	}
	at, err := snap.Time()
	if err != nil || s.now().Sub(at) > maxAge {
		return nil, fmt.Errorf("%s: stale: %w", kind, ErrNoSnapshot)
	}
	return snap, nil
}
