// Package api is the shared JSON-over-HTTP client used by the scanner and
// inventory integrations.
//
// It handles base URL cleanup, static authentication headers, timeouts,
// optional TLS verification skipping and non-2xx responses, which are
// returned as *StatusError so callers can inspect the status code.
//
// # Usage
//
//	c, err := api.NewClient(api.Options{
//	    BaseURL: "https://netbox.local",
//	    Headers: map[string]string{"Authorization": "Token " + token},
//	})
//	var out struct{ Count int `json:"count"` }
//	err = c.GetJSON(ctx, "/api/dcim/devices/", url.Values{"limit": {"1"}}, &out)
package api
