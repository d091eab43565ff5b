// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local mirrors and tests)
// connections from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the server
// with the configured timeout. SQLite connections are limited to a single open
// connection so that transactions never contend with each other.
//
// # Migrate
//
// Migrate wraps AutoMigrate. On MySQL the tables are created, or converted, with
// the utf8mb4_bin collation so unique natural keys compare byte-wise.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live schema so that the migrate
// command can verify the catalog tables after AutoMigrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, map[string][]string{"books": {"gutenberg_id"}})
package database
