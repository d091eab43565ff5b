package sync

import (
	"fmt"
	"path/filepath"
	"time"
)

// Archive sources.
const (
	SourceHTTP   = "http"
	SourceFile   = "file"
	SourceBucket = "bucket"
)

// CatalogConfig describes where the bundle comes from and how the mirror is laid out.
type CatalogConfig struct {
	// URL of the compressed bundle.
	URL string `mapstructure:"url" default:"https://gutenberg.org/cache/epub/feeds/rdf-files.tar.bz2"`
	// Source selects the transfer: http, file or bucket.
	Source string `mapstructure:"source" default:"http"`
	// FallbackPath is a pre-fetched archive used by the file source.
	FallbackPath string `mapstructure:"fallback_path" default:"data/rdf-files.tar.zip"`
	// BucketObject is the archive object name used by the bucket source.
	BucketObject string `mapstructure:"bucket_object" default:"feeds/rdf-files.tar.bz2"`
	// StagingDir is the ephemeral extraction root.
	StagingDir string `mapstructure:"staging_dir" default:"tmp/catalog"`
	// LiveDir holds one directory per item.
	LiveDir string `mapstructure:"live_dir" default:"catalog/rdf"`
	// ItemsSubdir is where item directories live inside the extracted bundle.
	ItemsSubdir string `mapstructure:"items_subdir" default:"cache/epub"`
	// RecordPattern names the record file inside an item directory.
	RecordPattern string `mapstructure:"record_pattern" default:"pg%d.rdf"`
	// MinArchiveBytes is the exclusive lower bound of a plausible bundle size.
	MinArchiveBytes int64 `mapstructure:"min_archive_bytes" default:"104857600"`
	// MinEntries is the minimum number of extracted item directories.
	MinEntries int `mapstructure:"min_entries" default:"50000"`
	// ProgressEvery controls reconciliation progress logging.
	ProgressEvery int `mapstructure:"progress_every" default:"1000"`
}

// ArchivePath is where the bundle is downloaded inside the staging root.
// The name keeps the source extension so the extractor can pick a codec.
func (c CatalogConfig) ArchivePath() string {
	name := "catalog" + ArchiveExt(c.sourceName())
	return filepath.Join(c.StagingDir, name)
}

// ItemsDir is the extracted items directory inside the staging root.
func (c CatalogConfig) ItemsDir() string {
	return filepath.Join(c.StagingDir, filepath.FromSlash(c.ItemsSubdir))
}

// RecordName returns the record file name of item id inside its directory.
func (c CatalogConfig) RecordName(id int) string {
	pattern := c.RecordPattern
	if pattern == "" {
		pattern = "pg%d.rdf"
	}
	return fmt.Sprintf(pattern, id)
}

func (c CatalogConfig) sourceName() string {
	switch c.Source {
	case SourceFile:
		return c.FallbackPath
	case SourceBucket:
		return c.BucketObject
	default:
		return c.URL
	}
}

// TransferConfig holds acquisition retry settings.
type TransferConfig struct {
	// MaxAttempts is the number of transfer attempts before giving up.
	MaxAttempts int `mapstructure:"max_attempts" default:"5"`
	// RetryDelaySeconds separates attempts.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" default:"10"`
	// TimeoutSeconds bounds connection setup and reads of the HTTP transfer.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// Progress renders a byte progress bar on stderr.
	Progress bool `mapstructure:"progress" default:"false"`
}

// RetryDelay returns RetryDelaySeconds as a duration.
func (c TransferConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Timeout returns TimeoutSeconds as a duration, 60s when unset.
func (c TransferConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
