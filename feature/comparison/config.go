package comparison

import (
	"fmt"
	"time"

	"agent-reconciler/core/reconcile"
)

// Config holds configuration for comparison runs.
type Config struct {
	// Strategy selects the matcher (indexed, linear).
	Strategy string `mapstructure:"strategy" default:"indexed"`
	// ScheduleIntervalMinutes runs a comparison periodically while the
	// server is up. Zero disables the schedule.
	ScheduleIntervalMinutes int `mapstructure:"schedule_interval_minutes" default:"0"`
	// Upload archives every run to object storage when storage is enabled.
	Upload bool `mapstructure:"upload" default:"true"`
	// HistoryLimit caps GET /comparison/history.
	HistoryLimit int `mapstructure:"history_limit" default:"50"`
	// TimeoutSeconds bounds a whole run, fetches included.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"600"`
}

// ParseStrategy maps a strategy name to a reconcile.Strategy.
func ParseStrategy(name string) (reconcile.Strategy, error) {
	switch name {
	case "", "indexed":
		return reconcile.StrategyIndexed, nil
	case "linear":
		return reconcile.StrategyLinear, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want indexed or linear)", name)
	}
}

// ScheduleInterval returns ScheduleIntervalMinutes as a duration.
func (c Config) ScheduleInterval() time.Duration {
	return time.Duration(c.ScheduleIntervalMinutes) * time.Minute
}

// Timeout returns TimeoutSeconds as a duration, defaulting to ten minutes.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
