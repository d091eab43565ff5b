package record

import (
	"fmt"
	"sort"
)

// Person is a creator reference as found in a catalog record.
type Person struct {
	Name  string `json:"name"`
	Birth *int   `json:"birth_year"`
	Death *int   `json:"death_year"`
}

// NaturalKey identifies a person across records. Unknown years are kept
// distinct from any real year so that "name|1800|" never matches "name|1800|0".
func (p Person) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%s", p.Name, yearKey(p.Birth), yearKey(p.Death))
}

func yearKey(year *int) string {
	if year == nil {
		return ""
	}
	return fmt.Sprintf("%d", *year)
}

// Format is one downloadable rendition of an item.
type Format struct {
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

// Key is the natural value of a format within its item.
func (f Format) Key() string {
	return f.MimeType + "\x00" + f.URL
}

// Record is the parsed metadata of one catalog item.
type Record struct {
	ID          int               `json:"id"`
	Title       *string           `json:"title"`
	Copyright   *bool             `json:"copyright"`
	Downloads   int               `json:"downloads"`
	Type        string            `json:"type"`
	Authors     []Person          `json:"authors"`
	Editors     []Person          `json:"editors"`
	Translators []Person          `json:"translators"`
	Bookshelves []string          `json:"bookshelves"`
	Languages   []string          `json:"languages"`
	Subjects    []string          `json:"subjects"`
	Formats     map[string]string `json:"formats"`
	Summaries   []string          `json:"summaries"`
}

// FormatList returns the formats ordered by mime type.
func (r *Record) FormatList() []Format {
	mimes := make([]string, 0, len(r.Formats))
	for mime := range r.Formats {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)

	out := make([]Format, 0, len(mimes))
	for _, mime := range mimes {
		out = append(out, Format{MimeType: mime, URL: r.Formats[mime]})
	}
	return out
}

// Reader parses the metadata file of one item.
type Reader interface {
	Read(id int, path string) (*Record, error)
}
