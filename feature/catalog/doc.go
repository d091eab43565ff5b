// Package catalog exposes the synchronized catalog over a read-only HTTP API.
//
// Routes:
//
//	GET /books        paged listing with search, language, copyright, id, mime type and topic filters
//	GET /books/:id    one book with all of its associations
//	GET /sync/runs    sync run history, newest first
//	GET /stats        row counts per table, cached for server.stats_ttl_seconds
//
// The pipeline that fills the catalog lives in the sync subpackage.
package catalog
