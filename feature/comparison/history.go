package comparison

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agent-reconciler/core/database"

	"gorm.io/gorm"
)

// ComparisonRun is one row of run history.
type ComparisonRun struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RunID      string    `gorm:"size:36;uniqueIndex" json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `gorm:"index" json:"finished_at"`
	Strategy   string    `gorm:"size:16" json:"strategy"`
	// Source is "api", "cache" or "mixed".
	Source string `gorm:"size:8" json:"source"`

	TotalAgents        int `json:"total_agents"`
	TotalDevices       int `json:"total_devices"`
	TotalVMs           int `json:"total_vms"`
	MatchedWithDevices int `json:"matched_with_devices"`
	MatchedWithVMs     int `json:"matched_with_vms"`
	UnmatchedAgents    int `json:"unmatched_agents"`
	UnmatchedDevices   int `json:"unmatched_devices"`
	UnmatchedVMs       int `json:"unmatched_vms"`

	CoveragePercentage      float64 `json:"coverage_percentage"`
	AgentCoveragePercentage float64 `json:"agent_coverage_percentage"`
	Diagnostics             int     `json:"diagnostics"`
	ArchiveKey              string  `gorm:"size:255" json:"archive_key,omitempty"`
}

// TableName pins the table name.
func (ComparisonRun) TableName() string {
	return "comparison_runs"
}

// newRun flattens a finished run into a history row.
func newRun(res *Result) ComparisonRun {
	s := res.Document.Summary
	c := res.Document.Details.Coverage
	return ComparisonRun{
		RunID:                   res.RunID,
		StartedAt:               res.StartedAt,
		FinishedAt:              res.FinishedAt,
		Strategy:                string(res.Strategy),
		Source:                  res.source(),
		TotalAgents:             s.TotalAgents,
		TotalDevices:            s.TotalDevices,
		TotalVMs:                s.TotalVMs,
		MatchedWithDevices:      s.MatchedWithDevices,
		MatchedWithVMs:          s.MatchedWithVMs,
		UnmatchedAgents:         s.UnmatchedAgents,
		UnmatchedDevices:        s.UnmatchedDevices,
		UnmatchedVMs:            s.UnmatchedVMs,
		CoveragePercentage:      c.CoveragePercentage,
		AgentCoveragePercentage: c.AgentCoveragePercentage,
		Diagnostics:             len(res.Document.Diagnostics),
		ArchiveKey:              res.ArchiveKey,
	}
}

// History stores finished runs in the database.
type History struct {
	db *gorm.DB
}

// NewHistory prepares the comparison_runs table. With autoMigrate the
// table is created or updated, otherwise its columns are only verified.
func NewHistory(db *gorm.DB, autoMigrate bool) (*History, error) {
	h := &History{db: db}
	if autoMigrate {
		if err := db.AutoMigrate(&ComparisonRun{}); err != nil {
			return nil, fmt.Errorf("failed to migrate history: %w", err)
		}
		return h, nil
	}
	if err := h.Verify(); err != nil {
		return nil, err
	}
	return h, nil
}

// Verify checks that the table has every column of ComparisonRun.
func (h *History) Verify() error {
	stmt := &gorm.Statement{DB: h.db}
	if err := stmt.Parse(&ComparisonRun{}); err != nil {
		return fmt.Errorf("failed to parse history model: %w", err)
	}

	missing, err := database.MissingColumns(h.db, ComparisonRun{}.TableName(), stmt.Schema.DBNames)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", ComparisonRun{}.TableName(), strings.Join(missing, ", "))
	}
	return nil
}

// Record inserts run.
func (h *History) Record(ctx context.Context, run *ComparisonRun) error {
	if err := h.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. The result is never nil.
func (h *History) List(ctx context.Context, limit int) ([]ComparisonRun, error) {
	runs := make([]ComparisonRun, 0)
	q := h.db.WithContext(ctx).Order("finished_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
