package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerson_NaturalKey(t *testing.T) {
	birth, death := 1812, 1870
	zero := 0

	assert.Equal(t, "Dickens, Charles|1812|1870", Person{Name: "Dickens, Charles", Birth: &birth, Death: &death}.NaturalKey())
	assert.Equal(t, "Anonymous||", Person{Name: "Anonymous"}.NaturalKey())
	assert.NotEqual(t,
		Person{Name: "X", Birth: &birth}.NaturalKey(),
		Person{Name: "X", Birth: &birth, Death: &zero}.NaturalKey(),
	)
}

func TestRecord_FormatList(t *testing.T) {
	rec := &Record{Formats: map[string]string{
		"text/plain":           "https://www.gutenberg.org/ebooks/1.txt.utf-8",
		"application/epub+zip": "https://www.gutenberg.org/ebooks/1.epub3.images",
	}}

	list := rec.FormatList()
	assert.Equal(t, []Format{
		{MimeType: "application/epub+zip", URL: "https://www.gutenberg.org/ebooks/1.epub3.images"},
		{MimeType: "text/plain", URL: "https://www.gutenberg.org/ebooks/1.txt.utf-8"},
	}, list)
	assert.Empty(t, (&Record{}).FormatList())
}
