package catalog

import (
	"context"
	"time"

	"catalog-sync/core/cache"
	"catalog-sync/core/server"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/repository"

	"go.uber.org/zap"
)

const statsKey = "stats"

// BookPage is one page of the book listing.
type BookPage struct {
	Count    int64         `json:"count"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Results  []models.Book `json:"results"`
}

// Service serves read-only catalog queries.
type Service struct {
	repo   *repository.GormRepository
	server server.Config
	stats  *cache.TTLCache[repository.Stats]
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo *repository.GormRepository, cfg server.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		server: cfg,
		stats:  cache.New[repository.Stats](time.Duration(cfg.StatsTTLSeconds) * time.Second),
		logger: logger,
	}
}

// ListBooks returns one page of matching books. Page size is clamped by the server config.
func (s *Service) ListBooks(ctx context.Context, q repository.BookQuery) (*BookPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = s.server.PageSize(q.PageSize)

	books, total, err := s.repo.ListBooks(ctx, q)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return &BookPage{Count: total, Page: q.Page, PageSize: q.PageSize, Results: books}, nil
}

// GetBook returns one book by its external id.
func (s *Service) GetBook(ctx context.Context, id int) (*models.Book, error) {
	return s.repo.GetBook(ctx, id)
}

// ListRuns returns the latest sync runs.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	runs, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []models.SyncRun{}
	}
	return runs, nil
}

// Stats returns cached row counts.
func (s *Service) Stats(ctx context.Context) (repository.Stats, error) {
	return s.stats.GetOrLoad(ctx, statsKey, func(ctx context.Context) (repository.Stats, error) {
		s.logger.Debug("Counting catalog rows")
		return s.repo.Stats(ctx)
	})
}
