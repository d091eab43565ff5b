package catalog

import (
	"errors"

	"catalog-sync/core/logger"
	"catalog-sync/core/utils"
	"catalog-sync/feature/catalog/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	books := app.Group("/books")
	books.Get("/", h.HandleListBooks)
	books.Get("/:id", h.HandleGetBook)

	app.Get("/sync/runs", h.HandleListRuns)
	app.Get("/stats", h.HandleStats)
}

// HandleListBooks lists books.
// @Summary List Books
// @Description Returns one page of books. Filters combine with AND; comma separated values within one filter combine with OR.
// @Tags catalog
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param page_size query int false "Books per page"
// @Param search query string false "Words matched against titles and author names"
// @Param languages query string false "Comma separated language codes"
// @Param copyright query string false "Comma separated list of true, false, null"
// @Param ids query string false "Comma separated book ids"
// @Param mime_type query string false "Format mime type prefix"
// @Param topic query string false "Text matched against subjects and bookshelves"
// @Param sort query string false "popular, ascending or descending"
// @Success 200 {object} BookPage
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /books [get]
func (h *Handler) HandleListBooks(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	ids, err := utils.ParseIntList(c.Query("ids"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sort := c.Query("sort")
	switch sort {
	case "", repository.SortPopular, repository.SortAscending, repository.SortDescending:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sort " + sort})
	}

	q := repository.BookQuery{
		Page:      utils.ToInt(c.Query("page")),
		PageSize:  utils.ToInt(c.Query("page_size")),
		Search:    c.Query("search"),
		Languages: utils.SplitList(c.Query("languages")),
		Copyright: utils.SplitList(c.Query("copyright")),
		IDs:       ids,
		MimeType:  c.Query("mime_type"),
		Topic:     c.Query("topic"),
		Sort:      sort,
	}

	page, err := h.service.ListBooks(c.Context(), q)
	if err != nil {
		l.Error("Failed to list books", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleGetBook returns one book.
// @Summary Get Book
// @Description Returns a book with its people, shelves, languages, subjects, formats and summaries.
// @Tags catalog
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} models.Book
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /books/{id} [get]
func (h *Handler) HandleGetBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid book id"})
	}

	book, err := h.service.GetBook(c.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "book not found"})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to load book", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(book)
}

// HandleListRuns lists sync runs.
// @Summary List Sync Runs
// @Description Returns the most recent catalog sync runs, newest first.
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} models.SyncRun
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	runs, err := h.service.ListRuns(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list sync runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleStats returns catalog row counts.
// @Summary Catalog Statistics
// @Description Returns row counts per catalog table. Values are cached for a short time.
// @Tags catalog
// @Produce json
// @Success 200 {object} repository.Stats
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to count catalog rows", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
