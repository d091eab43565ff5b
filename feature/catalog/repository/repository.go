package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/record"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the write side of the catalog used by the sync pipeline.
type Store interface {
	// Transaction runs fn against a store bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	UpsertBook(ctx context.Context, rec *record.Record) (uint, error)
	DeleteBooks(ctx context.Context, gutenbergIDs []int) (int64, error)

	ResolvePerson(ctx context.Context, person record.Person) (uint, error)
	ResolveBookshelf(ctx context.Context, name string) (uint, error)
	ResolveLanguage(ctx context.Context, code string) (uint, error)
	ResolveSubject(ctx context.Context, name string) (uint, error)
	Linker(rel models.Relation) reconcile.Linker

	ListFormats(ctx context.Context, bookID uint) ([]reconcile.Child, error)
	CreateFormat(ctx context.Context, bookID uint, format record.Format) (uint, error)
	DeleteFormats(ctx context.Context, ids []uint) error

	ListSummaries(ctx context.Context, bookID uint) ([]reconcile.Child, error)
	CreateSummary(ctx context.Context, bookID uint, text string) (uint, error)
	DeleteSummaries(ctx context.Context, ids []uint) error

	CreateRun(ctx context.Context, run *models.SyncRun) error
	UpdateRun(ctx context.Context, run *models.SyncRun) error
}

// GormRepository implements Store and the read queries of the API on gorm.
type GormRepository struct {
	db *gorm.DB
}

// New creates a repository over db.
func New(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// DB returns the underlying connection.
func (r *GormRepository) DB() *gorm.DB {
	return r.db
}

// Transaction implements Store.
func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// UpsertBook updates the book with the record's id in place, or creates it.
// It returns the book's primary key.
func (r *GormRepository) UpsertBook(ctx context.Context, rec *record.Record) (uint, error) {
	db := r.db.WithContext(ctx)

	var book models.Book
	err := db.Where("gutenberg_id = ?", rec.ID).Take(&book).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		book = models.Book{
			GutenbergID:   rec.ID,
			Title:         rec.Title,
			Copyright:     rec.Copyright,
			DownloadCount: rec.Downloads,
			MediaType:     rec.Type,
		}
		if err := db.Create(&book).Error; err != nil {
			return 0, fmt.Errorf("failed to create book %d: %w", rec.ID, err)
		}
		return book.ID, nil
	case err != nil:
		return 0, fmt.Errorf("failed to look up book %d: %w", rec.ID, err)
	}

	err = db.Model(&models.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":          rec.Title,
		"copyright":      rec.Copyright,
		"download_count": rec.Downloads,
		"media_type":     rec.Type,
	}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to update book %d: %w", rec.ID, err)
	}
	return book.ID, nil
}

// DeleteBooks removes the books with the given external ids together with their
// links, formats and summaries. Shared entities are left alone. Unknown ids are ignored.
func (r *GormRepository) DeleteBooks(ctx context.Context, gutenbergIDs []int) (int64, error) {
	if len(gutenbergIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Book{}).Where("gutenberg_id IN ?", gutenbergIDs).Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to look up books: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		for _, rel := range models.Relations() {
			stmt := fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", rel.JoinTable, models.BookColumn)
			if err := tx.Exec(stmt, ids).Error; err != nil {
				return fmt.Errorf("failed to unlink %s: %w", rel.JoinTable, err)
			}
		}
		if err := tx.Where("book_id IN ?", ids).Delete(&models.Format{}).Error; err != nil {
			return fmt.Errorf("failed to delete formats: %w", err)
		}
		if err := tx.Where("book_id IN ?", ids).Delete(&models.Summary{}).Error; err != nil {
			return fmt.Errorf("failed to delete summaries: %w", err)
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Book{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete books: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// ResolvePerson returns the id of the person with the same natural key, creating it if needed.
func (r *GormRepository) ResolvePerson(ctx context.Context, person record.Person) (uint, error) {
	key := person.NaturalKey()
	return insertOrGet(ctx, r.db, &models.Person{
		Name:       person.Name,
		BirthYear:  person.Birth,
		DeathYear:  person.Death,
		NaturalKey: key,
	}, "natural_key", key)
}

// ResolveBookshelf returns the id of the named bookshelf, creating it if needed.
func (r *GormRepository) ResolveBookshelf(ctx context.Context, name string) (uint, error) {
	return insertOrGet(ctx, r.db, &models.Bookshelf{Name: name}, "name", name)
}

// ResolveLanguage returns the id of the language code, creating it if needed.
func (r *GormRepository) ResolveLanguage(ctx context.Context, code string) (uint, error) {
	return insertOrGet(ctx, r.db, &models.Language{Code: code}, "code", code)
}

// ResolveSubject returns the id of the named subject, creating it if needed.
func (r *GormRepository) ResolveSubject(ctx context.Context, name string) (uint, error) {
	return insertOrGet(ctx, r.db, &models.Subject{Name: name}, "name", name)
}

// insertOrGet reads the row keyed by column = key, inserting row first when it is
// absent. The insert relies on the unique index of column and never duplicates.
func insertOrGet[T any](ctx context.Context, db *gorm.DB, row *T, column string, key string) (uint, error) {
	db = db.WithContext(ctx)

	id, err := lookupID[T](db, column, key)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert %s %q: %w", column, key, err)
	}

	id, err = lookupID[T](db, column, key)
	if err != nil {
		return 0, fmt.Errorf("failed to read back %s %q: %w", column, key, err)
	}
	return id, nil
}

func lookupID[T any](db *gorm.DB, column string, key string) (uint, error) {
	var id uint
	err := db.Model(new(T)).Select("id").Where(column+" = ?", key).Limit(1).Row().Scan(&id)
	return id, err
}

// Linker returns a reconcile.Linker replacing the link set of rel for one book.
func (r *GormRepository) Linker(rel models.Relation) reconcile.Linker {
	return func(ctx context.Context, bookID uint, ids []uint) error {
		db := r.db.WithContext(ctx)

		unlink := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", rel.JoinTable, models.BookColumn)
		if err := db.Exec(unlink, bookID).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", rel.JoinTable, err)
		}
		if len(ids) == 0 {
			return nil
		}

		placeholders := make([]string, len(ids))
		args := make([]any, 0, len(ids)*2)
		for i, id := range ids {
			placeholders[i] = "(?, ?)"
			args = append(args, bookID, id)
		}
		insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES %s",
			rel.JoinTable, models.BookColumn, rel.Column, strings.Join(placeholders, ", "))
		if err := db.Exec(insert, args...).Error; err != nil {
			return fmt.Errorf("failed to link %s: %w", rel.JoinTable, err)
		}
		return nil
	}
}

// ListFormats returns the book's formats keyed by record.Format.Key.
func (r *GormRepository) ListFormats(ctx context.Context, bookID uint) ([]reconcile.Child, error) {
	var rows []models.Format
	if err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	out := make([]reconcile.Child, len(rows))
	for i, row := range rows {
		out[i] = reconcile.Child{ID: row.ID, Key: record.Format{MimeType: row.MimeType, URL: row.URL}.Key()}
	}
	return out, nil
}

// CreateFormat inserts a format for the book.
func (r *GormRepository) CreateFormat(ctx context.Context, bookID uint, format record.Format) (uint, error) {
	row := models.Format{BookID: bookID, MimeType: format.MimeType, URL: format.URL}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// DeleteFormats removes formats by id.
func (r *GormRepository) DeleteFormats(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Format{}).Error
}

// ListSummaries returns the book's summaries keyed by their text.
func (r *GormRepository) ListSummaries(ctx context.Context, bookID uint) ([]reconcile.Child, error) {
	var rows []models.Summary
	if err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	out := make([]reconcile.Child, len(rows))
	for i, row := range rows {
		out[i] = reconcile.Child{ID: row.ID, Key: row.Text}
	}
	return out, nil
}

// CreateSummary inserts a summary for the book.
func (r *GormRepository) CreateSummary(ctx context.Context, bookID uint, text string) (uint, error) {
	row := models.Summary{BookID: bookID, Text: text}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// DeleteSummaries removes summaries by id.
func (r *GormRepository) DeleteSummaries(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Summary{}).Error
}

// CreateRun inserts a sync run row.
func (r *GormRepository) CreateRun(ctx context.Context, run *models.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// UpdateRun saves every field of a sync run row.
func (r *GormRepository) UpdateRun(ctx context.Context, run *models.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// ListRuns returns the most recent sync runs, newest first.
func (r *GormRepository) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.SyncRun
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
