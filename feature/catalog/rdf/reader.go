package rdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"catalog-sync/core/utils"
	"catalog-sync/feature/catalog/record"

	"github.com/antchfx/xmlquery"
	"github.com/spf13/afero"
)

const zipMime = "application/zip"

// Reader parses pg<id>.rdf records from a filesystem.
type Reader struct {
	fs afero.Fs
}

// NewReader creates a reader over fs.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// Read parses the record file at path for item id.
func (r *Reader) Read(id int, path string) (*record.Record, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record %d: %w", id, err)
	}
	defer f.Close()

	return Parse(id, f)
}

// Parse decodes one RDF document. Elements are matched by local name so the
// namespace prefixes used by the publisher do not matter.
func Parse(id int, src io.Reader) (*record.Record, error) {
	doc, err := xmlquery.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %d: %w", id, err)
	}

	ebook := xmlquery.FindOne(doc, "//"+step("ebook"))
	if ebook == nil {
		return nil, fmt.Errorf("record %d has no ebook element", id)
	}

	rec := &record.Record{
		ID:          id,
		Authors:     []record.Person{},
		Editors:     []record.Person{},
		Translators: []record.Person{},
		Bookshelves: []string{},
		Languages:   []string{},
		Subjects:    []string{},
		Formats:     map[string]string{},
		Summaries:   []string{},
	}

	if n := xmlquery.FindOne(ebook, step("title")); n != nil {
		title := strings.TrimSpace(n.InnerText())
		rec.Title = &title
	}

	if n := xmlquery.FindOne(ebook, step("rights")); n != nil {
		rec.Copyright = copyrightOf(n.InnerText())
	}

	if n := xmlquery.FindOne(ebook, step("downloads")); n != nil {
		rec.Downloads = utils.ToInt(strings.TrimSpace(n.InnerText()))
	}

	if n := xmlquery.FindOne(ebook, path("type", "Description", "value")); n != nil {
		rec.Type = strings.TrimSpace(n.InnerText())
	}

	rec.Authors = people(ebook, "creator")
	rec.Editors = people(ebook, "edt")
	rec.Translators = people(ebook, "trl")

	rec.Bookshelves = values(ebook, path("bookshelf", "Description", "value"))
	rec.Languages = values(ebook, path("language", "Description", "value"))
	rec.Subjects = values(ebook, path("subject", "Description", "value"))
	rec.Summaries = values(ebook, step("marc520"))

	for _, file := range xmlquery.Find(ebook, path("hasFormat", "file")) {
		url := attr(file, "about")
		if url == "" {
			continue
		}
		mimes := values(file, path("format", "Description", "value"))
		for _, mime := range mimes {
			// Zip archives repeat another rendition, keep the inner type only.
			if mime == zipMime && len(mimes) > 1 {
				continue
			}
			if _, seen := rec.Formats[mime]; !seen {
				rec.Formats[mime] = url
			}
		}
	}

	return rec, nil
}

// copyrightOf maps a rights statement to the copyright flag. Unknown
// statements leave the flag unset.
func copyrightOf(rights string) *bool {
	rights = strings.TrimSpace(rights)
	var v bool
	switch {
	case strings.HasPrefix(rights, "Copyrighted"):
		v = true
	case strings.HasPrefix(rights, "Public domain"):
		v = false
	default:
		return nil
	}
	return &v
}

func people(ebook *xmlquery.Node, role string) []record.Person {
	out := []record.Person{}
	for _, agent := range xmlquery.Find(ebook, path(role, "agent")) {
		name := xmlquery.FindOne(agent, step("name"))
		if name == nil {
			continue
		}
		out = append(out, record.Person{
			Name:  strings.TrimSpace(name.InnerText()),
			Birth: year(agent, "birthdate"),
			Death: year(agent, "deathdate"),
		})
	}
	return out
}

func year(agent *xmlquery.Node, field string) *int {
	n := xmlquery.FindOne(agent, step(field))
	if n == nil {
		return nil
	}
	y, err := strconv.Atoi(strings.TrimSpace(n.InnerText()))
	if err != nil {
		return nil
	}
	return &y
}

// values returns the trimmed, non-empty, de-duplicated texts of expr in document order.
func values(top *xmlquery.Node, expr string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, n := range xmlquery.Find(top, expr) {
		text := strings.TrimSpace(n.InnerText())
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}

func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func step(local string) string {
	return "*[local-name()='" + local + "']"
}

func path(locals ...string) string {
	steps := make([]string, len(locals))
	for i, l := range locals {
		steps[i] = step(l)
	}
	return strings.Join(steps, "/")
}
