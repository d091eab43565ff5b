// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines the
// settings it needs: listen port, optional API key, the statistics cache TTL and
// the pagination limit applied by the catalog handlers.
package server
