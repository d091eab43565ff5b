// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber web framework.
//
// # Run Logs
//
// NewWithRunLog tees every entry into a per-invocation text file
// (<dir>/<YYYY-MM-DD_HHMMSS>.txt) written through lumberjack. The sync command
// hands the file's text to the configured notifiers once the run finishes.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context and attaches it to the log
// entry, so that all logs related to a specific request can be correlated.
//
// # Usage
//
//	log, runLog, _ := logger.NewWithRunLog(&cfg.Log, time.Now())
//	defer runLog.Close()
//	log.Info("Starting catalog sync")
package logger
