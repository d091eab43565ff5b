// Package utils provides small conversion helpers shared by the record reader,
// the sync pipeline and the HTTP handlers: lenient numeric conversion, list
// splitting for query parameters and numeric directory name checks.
package utils
