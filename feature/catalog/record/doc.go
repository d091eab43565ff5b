// Package record defines the parsed form of one catalog item's metadata file,
// as produced by a Reader and consumed by the reconciler.
package record
