package integrity

import (
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/bucket", h.HandleBucketCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/tree", h.HandleTreeCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every integrity check (Bucket, Archive, Tree, Schema). The tree check walks the whole live tree.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckBucket(ctx); err != nil {
		report["bucket"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["bucket"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if found, err := h.service.CheckArchive(ctx); err != nil {
		report["archive"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["archive"] = map[string]interface{}{"status": "ok", "found": found}
	}

	if tree, err := h.service.CheckTree(ctx); err != nil {
		report["tree"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["tree"] = tree
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	return c.JSON(report)
}

// HandleBucketCheck checks and optionally fixes the bucket folders.
// @Summary Check Bucket Folders
// @Description Checks that the archive and run log folders exist in the storage bucket. Optionally creates missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Bucket Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckBucket(c.Context())
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixBucket(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix bucket folders",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleArchiveCheck checks the archive object.
// @Summary Check Archive Object
// @Description Verifies that the catalog archive used by the bucket source exists.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Archive Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	found, err := h.service.CheckArchive(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "checked",
		"object": h.service.catalog.BucketObject,
		"found":  found,
	})
}

// HandleTreeCheck compares the live tree with the catalog.
// @Summary Check Live Tree
// @Description Lists item directories without a book row, book rows without a directory and directories without their record file.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.TreeReport "Tree Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/tree [get]
func (h *Handler) HandleTreeCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting live tree check")

	report, err := h.service.CheckTree(c.Context())
	if err != nil {
		l.Error("Tree check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Tree check completed", zap.Int("items", report.Items), zap.Int("books", report.Books))
	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Checks that the database schema matches the catalog models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
