package inventory

import "time"

// Config holds the output directory settings.
type Config struct {
	// Dir receives snapshots and comparison_results.json.
	Dir string `mapstructure:"dir" default:"output"`
	// PreferCache loads populations from snapshots before calling the APIs.
	PreferCache bool `mapstructure:"prefer_cache" default:"false"`
	// CacheMaxAgeMinutes rejects older snapshots when PreferCache is set.
	// Zero accepts any age.
	CacheMaxAgeMinutes int `mapstructure:"cache_max_age_minutes" default:"60"`
}

// CacheMaxAge returns CacheMaxAgeMinutes as a duration.
func (c Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeMinutes) * time.Minute
}
