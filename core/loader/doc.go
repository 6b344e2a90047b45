// Package loader registers HTTP features on the fiber app.
//
// A feature implements Feature: it names itself, reports whether its
// collaborators are configured, and mounts its routes in Load. Manager
// keeps features in registration order; LoadAll skips disabled ones and
// returns the names it loaded so `start` can log them.
//
// Only the comparison feature is registered today.
package loader
