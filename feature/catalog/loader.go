package catalog

import (
	"catalog-sync/core/server"
	"catalog-sync/feature/catalog/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	db      *gorm.DB
	handler *Handler
}

// NewFeature creates the catalog feature. A nil db disables it.
func NewFeature(db *gorm.DB, cfg server.Config, logger *zap.Logger) *Feature {
	f := &Feature{db: db}
	if db != nil {
		f.handler = NewHandler(NewService(repository.New(db), cfg, logger))
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled reports whether a database is available.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
