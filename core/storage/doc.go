// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface. The catalog sync
// uses it in two places: as an archive source (a pre-fetched bundle object used
// when the public endpoint is unreachable) and as a sink that archives run logs.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	obj, err := client.GetObject(ctx, cfg.Storage.Bucket, "archives/rdf-files.tar.bz2", minio.GetObjectOptions{})
package storage
