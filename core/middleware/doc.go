// Package middleware groups the HTTP middleware mounted on the Fiber app.
//
//   - auth: API key check on X-API-Key or a Bearer token. An empty key
//     disables it.
//   - rayid: assigns each request a ray id, stored in locals under "ray_id"
//     and echoed in the X-Ray-ID response header. logger.WithRayID reads it.
package middleware
