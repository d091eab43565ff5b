// Package config provides configuration management for the catalog sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults are declared next to each field with a `default`
// struct tag and registered through reflection, so every key is also reachable
// through AutomaticEnv (CATALOG_LIVE_DIR -> catalog.live_dir).
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key, pagination, stats cache)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level, format and run log directory
//   - Catalog: archive source, staging and live directories, thresholds
//   - Transfer: download attempts, retry delay and timeouts
//   - Notify: SMTP and bucket delivery of run logs
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.LiveDir)
package config
