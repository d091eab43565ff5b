// Package checks holds the individual catalog health checks used by the
// integrity feature and the integrity command.
package checks
