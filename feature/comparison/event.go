package comparison

import (
	"context"
	"time"

	"agent-reconciler/core/reconcile"
	"agent-reconciler/core/report"

	"go.uber.org/zap"
)

// CompletedSubject is published after every successful run.
const CompletedSubject = "comparison.completed"

// CompletedEvent is the payload of CompletedSubject.
type CompletedEvent struct {
	RunID       string                  `json:"run_id"`
	Timestamp   string                  `json:"timestamp"`
	Strategy    reconcile.Strategy      `json:"strategy"`
	Summary     reconcile.Summary       `json:"summary"`
	Coverage    report.CoverageAnalysis `json:"coverage"`
	Diagnostics int                     `json:"diagnostics"`
	ArchiveKey  string                  `json:"archive_key,omitempty"`
}

func newCompletedEvent(res *Result) CompletedEvent {
	return CompletedEvent{
		RunID:       res.RunID,
		Timestamp:   res.FinishedAt.Format(time.RFC3339),
		Strategy:    res.Strategy,
		Summary:     res.Document.Summary,
		Coverage:    res.Document.Details.Coverage,
		Diagnostics: len(res.Document.Diagnostics),
		ArchiveKey:  res.ArchiveKey,
	}
}

func (s *Service) publish(ctx context.Context, l *zap.Logger, res *Result) {
	if err := s.events.Publish(ctx, CompletedSubject, newCompletedEvent(res)); err != nil {
		l.Warn("Failed to publish completion event", zap.Error(err))
	}
}
