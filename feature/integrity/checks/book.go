package checks

import (
	"fmt"
	"sort"
	"strings"

	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/record"
)

// BookReport describes one item across the live tree and the catalog.
type BookReport struct {
	ID            int      `json:"id"`
	RecordPresent bool     `json:"record_present"`
	DBPresent     bool     `json:"db_present"`
	Mismatch      []string `json:"mismatch"`
}

// CompareBook lists the fields where the stored book differs from its record.
func CompareBook(rec *record.Record, book *models.Book) []string {
	mismatch := []string{}

	if deref(rec.Title) != deref(book.Title) {
		mismatch = append(mismatch, fmt.Sprintf("title: record %q, db %q", deref(rec.Title), deref(book.Title)))
	}
	if flag(rec.Copyright) != flag(book.Copyright) {
		mismatch = append(mismatch, fmt.Sprintf("copyright: record %s, db %s", flag(rec.Copyright), flag(book.Copyright)))
	}
	if rec.Downloads != book.DownloadCount {
		mismatch = append(mismatch, fmt.Sprintf("download_count: record %d, db %d", rec.Downloads, book.DownloadCount))
	}
	if rec.Type != book.MediaType {
		mismatch = append(mismatch, fmt.Sprintf("media_type: record %q, db %q", rec.Type, book.MediaType))
	}

	sets := []struct {
		name   string
		record []string
		db     []string
	}{
		{"authors", personKeys(rec.Authors), storedPersonKeys(book.Authors)},
		{"editors", personKeys(rec.Editors), storedPersonKeys(book.Editors)},
		{"translators", personKeys(rec.Translators), storedPersonKeys(book.Translators)},
		{"bookshelves", rec.Bookshelves, names(book.Bookshelves, func(b models.Bookshelf) string { return b.Name })},
		{"languages", rec.Languages, names(book.Languages, func(l models.Language) string { return l.Code })},
		{"subjects", rec.Subjects, names(book.Subjects, func(s models.Subject) string { return s.Name })},
		{"formats", formatKeys(rec.FormatList()), names(book.Formats, func(f models.Format) string { return f.MimeType + " " + f.URL })},
		{"summaries", rec.Summaries, names(book.Summaries, func(s models.Summary) string { return s.Text })},
	}
	for _, s := range sets {
		if !sameSet(s.record, s.db) {
			mismatch = append(mismatch, fmt.Sprintf("%s: record %d, db %d", s.name, len(unique(s.record)), len(unique(s.db))))
		}
	}

	return mismatch
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func flag(b *bool) string {
	if b == nil {
		return "null"
	}
	return fmt.Sprint(*b)
}

func personKeys(people []record.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.NaturalKey()
	}
	return out
}

func storedPersonKeys(people []models.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.NaturalKey
	}
	return out
}

func formatKeys(formats []record.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.MimeType + " " + f.URL
	}
	return out
}

func names[T any](rows []T, key func(T) string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = key(row)
	}
	return out
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func sameSet(a, b []string) bool {
	return strings.Join(unique(a), "\x00") == strings.Join(unique(b), "\x00")
}
