package models

import "time"

// Book is one catalog item.
type Book struct {
	ID            uint    `gorm:"column:id;primaryKey" json:"-"`
	GutenbergID   int     `gorm:"column:gutenberg_id;uniqueIndex;not null" json:"id"`
	Title         *string `gorm:"column:title;size:1024" json:"title"`
	Copyright     *bool   `gorm:"column:copyright" json:"copyright"`
	DownloadCount int     `gorm:"column:download_count;not null;default:0;index" json:"download_count"`
	MediaType     string  `gorm:"column:media_type;size:16;not null;default:''" json:"media_type"`

	Authors     []Person    `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:PersonID" json:"authors"`
	Editors     []Person    `gorm:"many2many:book_editors;joinForeignKey:BookID;joinReferences:PersonID" json:"editors"`
	Translators []Person    `gorm:"many2many:book_translators;joinForeignKey:BookID;joinReferences:PersonID" json:"translators"`
	Bookshelves []Bookshelf `gorm:"many2many:book_bookshelves;joinForeignKey:BookID;joinReferences:BookshelfID" json:"bookshelves"`
	Languages   []Language  `gorm:"many2many:book_languages;joinForeignKey:BookID;joinReferences:LanguageID" json:"languages"`
	Subjects    []Subject   `gorm:"many2many:book_subjects;joinForeignKey:BookID;joinReferences:SubjectID" json:"subjects"`
	Formats     []Format    `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"formats"`
	Summaries   []Summary   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"summaries"`
}

// TableName overrides the table name.
func (Book) TableName() string {
	return "books"
}

// Person is an author, editor or translator shared between books.
// NaturalKey is "name|birth|death" so that unknown years still deduplicate.
type Person struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"-"`
	Name       string `gorm:"column:name;size:255;not null" json:"name"`
	BirthYear  *int   `gorm:"column:birth_year" json:"birth_year"`
	DeathYear  *int   `gorm:"column:death_year" json:"death_year"`
	NaturalKey string `gorm:"column:natural_key;size:300;uniqueIndex;not null" json:"-"`
}

// TableName overrides the table name.
func (Person) TableName() string {
	return "persons"
}

// Bookshelf is a curated collection name.
type Bookshelf struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"-"`
	Name string `gorm:"column:name;size:255;uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name.
func (Bookshelf) TableName() string {
	return "bookshelves"
}

// Language is a language code such as "en".
type Language struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"-"`
	Code string `gorm:"column:code;size:16;uniqueIndex;not null" json:"code"`
}

// TableName overrides the table name.
func (Language) TableName() string {
	return "languages"
}

// Subject is a subject heading.
type Subject struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"-"`
	Name string `gorm:"column:name;size:512;uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name.
func (Subject) TableName() string {
	return "subjects"
}

// Format is a downloadable rendition owned by one book.
type Format struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"-"`
	BookID   uint   `gorm:"column:book_id;not null;uniqueIndex:idx_formats_book_mime_url,priority:1" json:"-"`
	MimeType string `gorm:"column:mime_type;size:64;not null;uniqueIndex:idx_formats_book_mime_url,priority:2" json:"mime_type"`
	URL      string `gorm:"column:url;size:255;not null;uniqueIndex:idx_formats_book_mime_url,priority:3" json:"url"`
}

// TableName overrides the table name.
func (Format) TableName() string {
	return "formats"
}

// Summary is a descriptive text owned by one book.
type Summary struct {
	ID     uint   `gorm:"column:id;primaryKey" json:"-"`
	BookID uint   `gorm:"column:book_id;not null;index" json:"-"`
	Text   string `gorm:"column:text;type:text;not null" json:"text"`
}

// TableName overrides the table name.
func (Summary) TableName() string {
	return "summaries"
}

// SyncRun records one invocation of the sync pipeline.
type SyncRun struct {
	ID         string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	StartedAt  time.Time  `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	Source     string     `gorm:"column:source;size:16;not null" json:"source"`
	DryRun     bool       `gorm:"column:dry_run;not null;default:false" json:"dry_run"`
	State      string     `gorm:"column:state;size:32;not null" json:"state"`
	Status     string     `gorm:"column:status;size:16;not null" json:"status"`
	Added      int        `gorm:"column:added;not null;default:0" json:"added"`
	Kept       int        `gorm:"column:kept;not null;default:0" json:"kept"`
	Stale      int        `gorm:"column:stale;not null;default:0" json:"stale"`
	Pruned     int        `gorm:"column:pruned;not null;default:0" json:"pruned"`
	Reconciled int        `gorm:"column:reconciled;not null;default:0" json:"reconciled"`
	Error      string     `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// Run statuses.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// All returns every model in migration order.
func All() []any {
	return []any{
		&Person{},
		&Bookshelf{},
		&Language{},
		&Subject{},
		&Book{},
		&Format{},
		&Summary{},
		&SyncRun{},
	}
}
