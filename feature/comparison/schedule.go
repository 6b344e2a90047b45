package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler runs comparisons periodically.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// NewScheduler registers a job running svc every interval with the
// default run options. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, svc *Service, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("schedule interval must be positive, got %s", interval)
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := svc.Run(ctx, svc.DefaultRunOptions()); err != nil {
				svc.logger.Error("Scheduled comparison failed", zap.Error(err))
			}
		}),
		gocron.WithName("comparison"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to schedule comparison: %w", err)
	}

	return &Scheduler{scheduler: s, logger: svc.logger}, nil
}

// Start begins running the job.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("Comparison schedule started")
}

// Shutdown stops the scheduler and waits for a running job.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// NextRun returns the next scheduled run time.
func (s *Scheduler) NextRun() (time.Time, error) {
	jobs := s.scheduler.Jobs()
	if len(jobs) == 0 {
		return time.Time{}, fmt.Errorf("no comparison job scheduled")
	}
	return jobs[0].NextRun()
}
