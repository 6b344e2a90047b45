// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the configuration structure and its validation.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key, read and write
// timeouts and whether the Swagger UI is served.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start to build the Fiber app.
package server
