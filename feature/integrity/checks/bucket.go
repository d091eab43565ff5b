package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RequiredPrefixes lists the bucket folders the pipeline reads from or writes to:
// the folder of the archive object and the run log folder, when configured.
func RequiredPrefixes(archiveObject, logPrefix string) []string {
	var prefixes []string
	if dir := path.Dir(archiveObject); archiveObject != "" && dir != "." {
		prefixes = append(prefixes, dir)
	}
	if logPrefix = strings.Trim(logPrefix, "/"); logPrefix != "" {
		prefixes = append(prefixes, logPrefix)
	}
	return prefixes
}

func ensureBucket(ctx context.Context, client storage.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

// CheckPrefixes returns the prefixes holding no object.
func CheckPrefixes(ctx context.Context, client storage.Client, bucket string, prefixes []string) ([]string, error) {
	if err := ensureBucket(ctx, client, bucket); err != nil {
		return nil, err
	}

	var missing []string
	for _, prefix := range prefixes {
		folderPath := strings.TrimSuffix(prefix, "/") + "/"

		opts := minio.ListObjectsOptions{
			Prefix:    folderPath,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for range client.ListObjects(ctx, bucket, opts) {
			found = true
			break
		}

		if !found {
			missing = append(missing, prefix)
		}
	}

	return missing, nil
}

// FixPrefixes creates an empty folder marker for every missing prefix.
func FixPrefixes(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	for _, prefix := range missing {
		folderPath := strings.TrimSuffix(prefix, "/") + "/"

		_, err := client.PutObject(ctx, bucket, folderPath, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", prefix))
	}
	return nil
}

// CheckArchive reports whether the archive object exists in the bucket.
func CheckArchive(ctx context.Context, client storage.Client, bucket, object string) (bool, error) {
	if err := ensureBucket(ctx, client, bucket); err != nil {
		return false, err
	}

	opts := minio.ListObjectsOptions{
		Prefix:    object,
		Recursive: false,
		MaxKeys:   1,
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list %s: %w", object, obj.Err)
		}
		if obj.Key == object {
			return true, nil
		}
		break
	}
	return false, nil
}
