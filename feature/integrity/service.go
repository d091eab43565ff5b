package integrity

import (
	"context"
	"errors"

	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/repository"
	"catalog-sync/feature/catalog/sync"
	"catalog-sync/feature/integrity/checks"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errNoStorage  = errors.New("object storage is not configured")
	errNoDatabase = errors.New("database connection is not available")
)

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	prefixes []string
	catalog  sync.CatalogConfig
	fs       afero.Fs
	db       *gorm.DB
	logger   *zap.Logger
}

// NewService creates a new integrity service. Client and db may be nil; the
// checks needing them then fail.
func NewService(client storage.Client, bucket string, prefixes []string, catalog sync.CatalogConfig, fs afero.Fs, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		prefixes: prefixes,
		catalog:  catalog,
		fs:       fs,
		db:       db,
		logger:   logger,
	}
}

// CheckBucket returns the required bucket folders that are missing.
func (s *Service) CheckBucket(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, errNoStorage
	}
	return checks.CheckPrefixes(ctx, s.client, s.bucket, s.prefixes)
}

// FixBucket creates the missing folders.
func (s *Service) FixBucket(ctx context.Context, missing []string) error {
	if s.client == nil {
		return errNoStorage
	}
	return checks.FixPrefixes(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckArchive reports whether the bucket holds the catalog archive object.
func (s *Service) CheckArchive(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, errNoStorage
	}
	return checks.CheckArchive(ctx, s.client, s.bucket, s.catalog.BucketObject)
}

// CheckTree compares the live record tree with the book rows.
func (s *Service) CheckTree(ctx context.Context) (*checks.TreeReport, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	ids, err := repository.New(s.db).BookIDs(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckTree(s.fs, s.catalog.LiveDir, s.catalog.RecordName, ids)
}

// CheckSchema compares the database schema with the catalog models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	return checks.CheckSchema(s.db)
}
