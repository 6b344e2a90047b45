package storage

import "time"

// Config holds configuration for the object storage archive.
type Config struct {
	// Enabled turns archiving of comparison documents on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the host:port of the S3 compatible service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the archived documents. It is created on first use.
	Bucket string `mapstructure:"bucket" default:"reconciler"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// Prefix is prepended to every object key.
	Prefix string `mapstructure:"prefix" default:"comparisons"`
	// Retain is the number of archived runs kept. Zero keeps everything.
	Retain int `mapstructure:"retain" default:"30"`
	// TimeoutSeconds bounds connection setup and time to first byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns TimeoutSeconds as a duration, defaulting to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
