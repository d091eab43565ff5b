package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// Sort orders accepted by ListBooks.
const (
	SortPopular    = "popular"
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// BookQuery filters and pages the book listing.
type BookQuery struct {
	Page     int
	PageSize int
	// Search matches every word against titles and author names.
	Search string
	// Languages restricts to books in any of these codes.
	Languages []string
	// Copyright accepts "true", "false" and "null".
	Copyright []string
	// IDs restricts to these external ids.
	IDs []int
	// MimeType is a prefix of a format's mime type.
	MimeType string
	// Topic matches subjects and bookshelves.
	Topic string
	Sort  string
}

// Stats holds row counts of the catalog tables.
type Stats struct {
	Books       int64 `json:"books"`
	Persons     int64 `json:"persons"`
	Bookshelves int64 `json:"bookshelves"`
	Languages   int64 `json:"languages"`
	Subjects    int64 `json:"subjects"`
	Formats     int64 `json:"formats"`
	Summaries   int64 `json:"summaries"`
}

var bookAssociations = []string{"Authors", "Editors", "Translators", "Bookshelves", "Languages", "Subjects", "Formats", "Summaries"}

// ListBooks returns one page of books matching q and the total match count.
func (r *GormRepository) ListBooks(ctx context.Context, q BookQuery) ([]models.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	tx := r.filtered(ctx, q)
	switch q.Sort {
	case SortAscending:
		tx = tx.Order("gutenberg_id ASC")
	case SortDescending:
		tx = tx.Order("gutenberg_id DESC")
	default:
		tx = tx.Order("download_count DESC").Order("gutenberg_id ASC")
	}
	for _, assoc := range bookAssociations {
		tx = tx.Preload(assoc)
	}

	var books []models.Book
	if err := tx.Offset((page - 1) * q.PageSize).Limit(q.PageSize).Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	return books, total, nil
}

// filtered builds a fresh books query with every filter of q applied.
func (r *GormRepository) filtered(ctx context.Context, q BookQuery) *gorm.DB {
	db := r.db.WithContext(ctx)
	tx := db.Model(&models.Book{})

	if len(q.IDs) > 0 {
		tx = tx.Where("gutenberg_id IN ?", q.IDs)
	}

	if len(q.Languages) > 0 {
		sub := db.Table(models.RelationLanguages.JoinTable+" AS bl").
			Select("bl.book_id").
			Joins("JOIN languages ON languages.id = bl.language_id").
			Where("languages.code IN ?", q.Languages)
		tx = tx.Where("id IN (?)", sub)
	}

	if len(q.Copyright) > 0 {
		var conds []string
		var args []any
		for _, v := range q.Copyright {
			switch strings.ToLower(v) {
			case "true":
				conds = append(conds, "copyright = ?")
				args = append(args, true)
			case "false":
				conds = append(conds, "copyright = ?")
				args = append(args, false)
			case "null":
				conds = append(conds, "copyright IS NULL")
			}
		}
		if len(conds) > 0 {
			tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
	}

	if q.MimeType != "" {
		sub := db.Model(&models.Format{}).Select("book_id").Where("mime_type LIKE ?", q.MimeType+"%")
		tx = tx.Where("id IN (?)", sub)
	}

	if q.Topic != "" {
		pattern := "%" + q.Topic + "%"
		subjects := db.Table(models.RelationSubjects.JoinTable+" AS bs").
			Select("bs.book_id").
			Joins("JOIN subjects ON subjects.id = bs.subject_id").
			Where("subjects.name LIKE ?", pattern)
		shelves := db.Table(models.RelationBookshelves.JoinTable+" AS bb").
			Select("bb.book_id").
			Joins("JOIN bookshelves ON bookshelves.id = bb.bookshelf_id").
			Where("bookshelves.name LIKE ?", pattern)
		tx = tx.Where("(id IN (?) OR id IN (?))", subjects, shelves)
	}

	for _, word := range strings.Fields(q.Search) {
		pattern := "%" + word + "%"
		authors := db.Table(models.RelationAuthors.JoinTable+" AS ba").
			Select("ba.book_id").
			Joins("JOIN persons ON persons.id = ba.person_id").
			Where("persons.name LIKE ?", pattern)
		tx = tx.Where("(title LIKE ? OR id IN (?))", pattern, authors)
	}

	return tx
}

// GetBook returns the book with the given external id and all its associations.
func (r *GormRepository) GetBook(ctx context.Context, gutenbergID int) (*models.Book, error) {
	tx := r.db.WithContext(ctx)
	for _, assoc := range bookAssociations {
		tx = tx.Preload(assoc)
	}

	var book models.Book
	err := tx.Where("gutenberg_id = ?", gutenbergID).Take(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book %d: %w", gutenbergID, err)
	}
	return &book, nil
}

// Stats counts the rows of every catalog table.
func (r *GormRepository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Book{}, &s.Books},
		{&models.Person{}, &s.Persons},
		{&models.Bookshelf{}, &s.Bookshelves},
		{&models.Language{}, &s.Languages},
		{&models.Subject{}, &s.Subjects},
		{&models.Format{}, &s.Formats},
		{&models.Summary{}, &s.Summaries},
	}

	db := r.db.WithContext(ctx)
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return s, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return s, nil
}

// BookIDs returns every external book id in ascending order.
func (r *GormRepository) BookIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&models.Book{}).Order("gutenberg_id").Pluck("gutenberg_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list book ids: %w", err)
	}
	return ids, nil
}
