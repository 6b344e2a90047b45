// Package database handles database connections and schema checks.
//
// It provides a wrapper around GORM to configure MySQL or SQLite
// connections from the application's configuration. The database is
// optional: it only backs the comparison run history.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// server within the configured timeout.
//
// # Schema Checks
//
// When auto migration is disabled, GetTableColumns and MissingColumns let
// callers verify that an externally managed table has the columns they
// write.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable, history disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "comparison_runs", []string{"run_id"})
package database
