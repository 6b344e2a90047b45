package nessus

// Config holds configuration for the Nessus API.
type Config struct {
	// URL is the Nessus server root, e.g. https://nessus:8834.
	URL string `mapstructure:"url" default:""`
	// AccessKey is the API access key.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the API secret key.
	SecretKey string `mapstructure:"secret_key" default:""`
	// VerifySSL enables TLS certificate verification.
	VerifySSL bool `mapstructure:"verify_ssl" default:"false"`
	// TimeoutSeconds bounds a single API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// IncludeDetails fetches /agents/{id} for every listed agent.
	IncludeDetails bool `mapstructure:"include_details" default:"true"`
	// DetailWorkers is the number of concurrent detail requests.
	DetailWorkers int `mapstructure:"detail_workers" default:"8"`
}
