package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "https://gutenberg.org/cache/epub/feeds/rdf-files.tar.bz2", cfg.Catalog.URL)
	assert.Equal(t, "http", cfg.Catalog.Source)
	assert.Equal(t, "cache/epub", cfg.Catalog.ItemsSubdir)
	assert.Equal(t, int64(100*1024*1024), cfg.Catalog.MinArchiveBytes)
	assert.Equal(t, 50000, cfg.Catalog.MinEntries)
	assert.Equal(t, 5, cfg.Transfer.MaxAttempts)
	assert.Equal(t, 10, cfg.Transfer.RetryDelaySeconds)
	assert.Equal(t, "catalog", cfg.Storage.Bucket)
	assert.Empty(t, cfg.Notify.To)
}

func TestLoadConfig_EnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	env := "CATALOG_LIVE_DIR=/srv/catalog/rdf\nTRANSFER_MAX_ATTEMPTS=3\nDATABASE_DRIVER=sqlite\nNOTIFY_TO=a@example.org,b@example.org\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	t.Cleanup(func() {
		os.Unsetenv("CATALOG_LIVE_DIR")
		os.Unsetenv("TRANSFER_MAX_ATTEMPTS")
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("NOTIFY_TO")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/catalog/rdf", cfg.Catalog.LiveDir)
	assert.Equal(t, 3, cfg.Transfer.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"a@example.org", "b@example.org"}, cfg.Notify.Recipients())
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	env := "CATALOG_SOURCE=ftp\nTRANSFER_MAX_ATTEMPTS=0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	t.Cleanup(func() {
		os.Unsetenv("CATALOG_SOURCE")
		os.Unsetenv("TRANSFER_MAX_ATTEMPTS")
	})

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.source")
	assert.Contains(t, err.Error(), "transfer.max_attempts")
}

func TestValidate_SameDirs(t *testing.T) {
	cfg := Config{}
	cfg.Catalog.Source = "file"
	cfg.Catalog.StagingDir = "data/"
	cfg.Catalog.LiveDir = "data"
	cfg.Transfer.MaxAttempts = 1

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}
