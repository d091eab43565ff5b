// Package models contains the gorm models of the relational catalog.
//
// Books link to the shared entities (Person, Bookshelf, Language, Subject)
// through six link tables described by Relation. Formats and summaries are
// owned rows keyed by book_id. Shared entities carry a unique natural key and
// are never removed when a book goes away.
package models
