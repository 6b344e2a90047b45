package netbox

// Config holds configuration for the Netbox API.
type Config struct {
	// URL is the Netbox root, e.g. https://netbox.local.
	URL string `mapstructure:"url" default:""`
	// Token is the API token.
	Token string `mapstructure:"token" default:""`
	// VerifySSL enables TLS certificate verification.
	VerifySSL bool `mapstructure:"verify_ssl" default:"false"`
	// TimeoutSeconds bounds a single API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the limit used for paginated list calls.
	PageSize int `mapstructure:"page_size" default:"1000"`
}
