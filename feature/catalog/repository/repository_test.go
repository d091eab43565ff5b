package repository

import (
	"context"
	"regexp"
	"testing"

	"catalog-sync/core/database"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/record"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *GormRepository {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return New(db)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestResolve_IsInsertOrGet(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	austen := record.Person{Name: "Austen, Jane", Birth: intPtr(1775), Death: intPtr(1817)}
	first, err := repo.ResolvePerson(ctx, austen)
	require.NoError(t, err)
	second, err := repo.ResolvePerson(ctx, austen)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	anon, err := repo.ResolvePerson(ctx, record.Person{Name: "Anonymous"})
	require.NoError(t, err)
	anonAgain, err := repo.ResolvePerson(ctx, record.Person{Name: "Anonymous"})
	require.NoError(t, err)
	assert.Equal(t, anon, anonAgain)
	assert.NotEqual(t, first, anon)

	en, err := repo.ResolveLanguage(ctx, "en")
	require.NoError(t, err)
	enAgain, err := repo.ResolveLanguage(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, en, enAgain)

	_, err = repo.ResolveSubject(ctx, "Fiction")
	require.NoError(t, err)
	_, err = repo.ResolveBookshelf(ctx, "Classics")
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Persons)
	assert.Equal(t, int64(1), stats.Languages)
	assert.Equal(t, int64(1), stats.Subjects)
	assert.Equal(t, int64(1), stats.Bookshelves)
}

func TestUpsertBook(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	id, err := repo.UpsertBook(ctx, &record.Record{ID: 11, Title: strPtr("Alice"), Downloads: 5, Type: "Text"})
	require.NoError(t, err)

	again, err := repo.UpsertBook(ctx, &record.Record{ID: 11, Title: strPtr("Alice in Wonderland"), Copyright: boolPtr(false), Downloads: 9, Type: "Text"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	book, err := repo.GetBook(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "Alice in Wonderland", *book.Title)
	assert.Equal(t, 9, book.DownloadCount)
	require.NotNil(t, book.Copyright)
	assert.False(t, *book.Copyright)

	_, err = repo.GetBook(ctx, 12)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinker_ReplacesLinks(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	bookID, err := repo.UpsertBook(ctx, &record.Record{ID: 1, Type: "Text"})
	require.NoError(t, err)
	a, _ := repo.ResolveSubject(ctx, "A")
	b, _ := repo.ResolveSubject(ctx, "B")
	c, _ := repo.ResolveSubject(ctx, "C")

	link := repo.Linker(models.RelationSubjects)
	require.NoError(t, link(ctx, bookID, []uint{a, b}))
	require.NoError(t, link(ctx, bookID, []uint{b, c}))

	book, err := repo.GetBook(ctx, 1)
	require.NoError(t, err)
	var names []string
	for _, s := range book.Subjects {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"B", "C"}, names)

	require.NoError(t, link(ctx, bookID, nil))
	book, err = repo.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, book.Subjects)
}

func TestLinker_QueryShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := New(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM book_authors WHERE book_id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_authors (book_id, person_id) VALUES (?, ?), (?, ?)")).
		WithArgs(7, 1, 7, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Linker(models.RelationAuthors)(context.Background(), 7, []uint{1, 2})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBooks_KeepsSharedEntities(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	bookID, err := repo.UpsertBook(ctx, &record.Record{ID: 5, Type: "Text"})
	require.NoError(t, err)
	person, err := repo.ResolvePerson(ctx, record.Person{Name: "Poe, Edgar Allan"})
	require.NoError(t, err)
	require.NoError(t, repo.Linker(models.RelationAuthors)(ctx, bookID, []uint{person}))
	_, err = repo.CreateFormat(ctx, bookID, record.Format{MimeType: "text/html", URL: "https://example.org/5.html"})
	require.NoError(t, err)
	_, err = repo.CreateSummary(ctx, bookID, "Tales.")
	require.NoError(t, err)

	deleted, err := repo.DeleteBooks(ctx, []int{5, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Books)
	assert.Equal(t, int64(0), stats.Formats)
	assert.Equal(t, int64(0), stats.Summaries)
	assert.Equal(t, int64(1), stats.Persons)

	var links int64
	require.NoError(t, repo.DB().Table("book_authors").Count(&links).Error)
	assert.Zero(t, links)

	deleted, err = repo.DeleteBooks(ctx, []int{5})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestListBooks_Filters(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	seed := []struct {
		rec      record.Record
		lang     string
		author   string
		subject  string
		mimeType string
	}{
		{record.Record{ID: 1, Title: strPtr("Moby Dick"), Downloads: 50, Copyright: boolPtr(false)}, "en", "Melville, Herman", "Whaling -- Fiction", "text/html"},
		{record.Record{ID: 2, Title: strPtr("Les Misérables"), Downloads: 80, Copyright: boolPtr(true)}, "fr", "Hugo, Victor", "France -- Fiction", "application/epub+zip"},
		{record.Record{ID: 3, Title: strPtr("Walden"), Downloads: 10}, "en", "Thoreau, Henry David", "Nature", "text/plain"},
	}
	for _, s := range seed {
		rec := s.rec
		bookID, err := repo.UpsertBook(ctx, &rec)
		require.NoError(t, err)
		langID, _ := repo.ResolveLanguage(ctx, s.lang)
		require.NoError(t, repo.Linker(models.RelationLanguages)(ctx, bookID, []uint{langID}))
		personID, _ := repo.ResolvePerson(ctx, record.Person{Name: s.author})
		require.NoError(t, repo.Linker(models.RelationAuthors)(ctx, bookID, []uint{personID}))
		subjectID, _ := repo.ResolveSubject(ctx, s.subject)
		require.NoError(t, repo.Linker(models.RelationSubjects)(ctx, bookID, []uint{subjectID}))
		_, err = repo.CreateFormat(ctx, bookID, record.Format{MimeType: s.mimeType, URL: "https://example.org/x"})
		require.NoError(t, err)
	}

	ids := func(books []models.Book) []int {
		var out []int
		for _, b := range books {
			out = append(out, b.GutenbergID)
		}
		return out
	}

	books, total, err := repo.ListBooks(ctx, BookQuery{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int{2, 1, 3}, ids(books))
	assert.Len(t, books[0].Authors, 1)
	assert.Len(t, books[0].Formats, 1)

	books, _, err = repo.ListBooks(ctx, BookQuery{PageSize: 10, Languages: []string{"en"}, Sort: SortDescending})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids(books))

	books, _, err = repo.ListBooks(ctx, BookQuery{PageSize: 10, Copyright: []string{"null", "true"}, Sort: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids(books))

	books, _, err = repo.ListBooks(ctx, BookQuery{PageSize: 10, Search: "melville dick"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(books))

	books, _, err = repo.ListBooks(ctx, BookQuery{PageSize: 10, Topic: "fiction", MimeType: "text/"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(books))

	books, total, err = repo.ListBooks(ctx, BookQuery{PageSize: 1, Page: 2, Sort: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int{2}, ids(books))

	books, _, err = repo.ListBooks(ctx, BookQuery{PageSize: 10, IDs: []int{3, 1}, Sort: SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids(books))
}

func TestRuns(t *testing.T) {
	repo := setupSQLite(t)
	ctx := context.Background()

	run := &models.SyncRun{ID: "run-1", Source: "http", State: "Acquiring", Status: models.RunRunning}
	require.NoError(t, repo.CreateRun(ctx, run))

	run.State = "Done"
	run.Status = models.RunSucceeded
	run.Reconciled = 3
	require.NoError(t, repo.UpdateRun(ctx, run))

	runs, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "Done", runs[0].State)
	assert.Equal(t, 3, runs[0].Reconciled)
}
