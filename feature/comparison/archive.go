package comparison

import (
	"context"

	"agent-reconciler/core/report"

	"go.uber.org/zap"
)

// Archiver stores a finished document under its run id and returns the
// object key. *storage.Archive implements it.
type Archiver interface {
	Put(ctx context.Context, id string, doc []byte) (string, error)
}

func (s *Service) archive(ctx context.Context, l *zap.Logger, res *Result) {
	if s.archiver == nil {
		return
	}
	data, err := report.Marshal(res.Document)
	if err != nil {
		l.Warn("Failed to encode document for archive", zap.Error(err))
		return
	}
	key, err := s.archiver.Put(ctx, res.RunID, data)
	if err != nil {
		l.Warn("Failed to archive comparison", zap.Error(err))
		return
	}
	res.ArchiveKey = key
	l.Info("Archived comparison", zap.String("key", key), zap.Int("bytes", len(data)))
}
