package events

import "time"

// Config holds the NATS connection used to announce finished runs.
type Config struct {
	Enabled bool   `mapstructure:"enabled" default:"false"`
	URL     string `mapstructure:"url" default:"nats://127.0.0.1:4222"`
	// Name identifies this client to the server.
	Name string `mapstructure:"name" default:"agent-reconciler"`
	// SubjectPrefix is prepended to every subject, dot separated.
	SubjectPrefix string `mapstructure:"subject_prefix" default:"reconciler"`
	// Token enables token authentication when set.
	Token                string `mapstructure:"token" default:""`
	MaxReconnects        int    `mapstructure:"max_reconnects" default:"10"`
	ReconnectWaitSeconds int    `mapstructure:"reconnect_wait_seconds" default:"2"`
}

// ReconnectWait returns ReconnectWaitSeconds as a duration.
func (c Config) ReconnectWait() time.Duration {
	return time.Duration(c.ReconnectWaitSeconds) * time.Second
}
