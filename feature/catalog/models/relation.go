package models

// Relation names one many-to-many link table between books and a shared entity.
type Relation struct {
	// Name is the association name on Book.
	Name string
	// JoinTable is the link table.
	JoinTable string
	// Column references the shared entity inside JoinTable.
	Column string
}

// BookColumn references the book inside every link table.
const BookColumn = "book_id"

var (
	RelationAuthors     = Relation{Name: "Authors", JoinTable: "book_authors", Column: "person_id"}
	RelationEditors     = Relation{Name: "Editors", JoinTable: "book_editors", Column: "person_id"}
	RelationTranslators = Relation{Name: "Translators", JoinTable: "book_translators", Column: "person_id"}
	RelationBookshelves = Relation{Name: "Bookshelves", JoinTable: "book_bookshelves", Column: "bookshelf_id"}
	RelationLanguages   = Relation{Name: "Languages", JoinTable: "book_languages", Column: "language_id"}
	RelationSubjects    = Relation{Name: "Subjects", JoinTable: "book_subjects", Column: "subject_id"}
)

// Relations lists every book link table.
func Relations() []Relation {
	return []Relation{
		RelationAuthors,
		RelationEditors,
		RelationTranslators,
		RelationBookshelves,
		RelationLanguages,
		RelationSubjects,
	}
}

// ExpectedColumns lists the columns the catalog needs per table, used to
// detect schemas created by an older release.
func ExpectedColumns() map[string][]string {
	cols := map[string][]string{
		"books":       {"id", "gutenberg_id", "title", "copyright", "download_count", "media_type"},
		"persons":     {"id", "name", "birth_year", "death_year", "natural_key"},
		"bookshelves": {"id", "name"},
		"languages":   {"id", "code"},
		"subjects":    {"id", "name"},
		"formats":     {"id", "book_id", "mime_type", "url"},
		"summaries":   {"id", "book_id", "text"},
		"sync_runs":   {"id", "started_at", "finished_at", "state", "status", "error"},
	}
	for _, rel := range Relations() {
		cols[rel.JoinTable] = []string{BookColumn, rel.Column}
	}
	return cols
}
