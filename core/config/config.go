package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/notify"
	"catalog-sync/core/server"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration, one section per concern.
type Config struct {
	Server   server.Config   `mapstructure:"server"`
	Storage  storage.Config  `mapstructure:"storage"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	// Catalog holds the archive source and mirror layout.
	Catalog sync.CatalogConfig `mapstructure:"catalog"`
	// Transfer holds download retry settings.
	Transfer sync.TransferConfig `mapstructure:"transfer"`
	// Notify holds run log delivery settings.
	Notify notify.Config `mapstructure:"notify"`
}

// LoadConfig reads <path>/.env (when present) and the environment on top of
// the struct tag defaults, then validates the result.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal in production
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	registerDefaults(v, reflect.TypeOf(Config{}), "")

	// CATALOG_LIVE_DIR -> catalog.live_dir
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// registerDefaults walks the struct tree and registers every mapstructure key
// with its default tag. Keys without a default are registered empty so that
// AutomaticEnv can still resolve them on Unmarshal.
func registerDefaults(v *viper.Viper, t reflect.Type, prefix string) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			registerDefaults(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

func (c *Config) validate() error {
	var errs []error

	switch c.Catalog.Source {
	case sync.SourceHTTP, sync.SourceFile, sync.SourceBucket:
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q must be one of http, file, bucket", c.Catalog.Source))
	}
	if c.Catalog.StagingDir == "" || c.Catalog.LiveDir == "" {
		errs = append(errs, errors.New("catalog.staging_dir and catalog.live_dir are required"))
	} else if filepath.Clean(c.Catalog.StagingDir) == filepath.Clean(c.Catalog.LiveDir) {
		errs = append(errs, errors.New("catalog.staging_dir and catalog.live_dir must differ"))
	}
	if c.Transfer.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("transfer.max_attempts must be at least 1, got %d", c.Transfer.MaxAttempts))
	}

	return errors.Join(errs...)
}
