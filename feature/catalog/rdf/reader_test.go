package rdf

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF xml:base="http://www.gutenberg.org/"
  xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
  xmlns:marcrel="http://id.loc.gov/vocabulary/relators/"
  xmlns:dcam="http://purl.org/dc/dcam/">
  <pgterms:ebook rdf:about="ebooks/1342">
    <dcterms:title>Pride and Prejudice</dcterms:title>
    <dcterms:rights>Public domain in the USA.</dcterms:rights>
    <pgterms:downloads rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">45000</pgterms:downloads>
    <dcterms:type>
      <rdf:Description rdf:nodeID="N1">
        <dcam:memberOf rdf:resource="http://purl.org/dc/terms/DCMIType"/>
        <rdf:value>Text</rdf:value>
      </rdf:Description>
    </dcterms:type>
    <dcterms:creator>
      <pgterms:agent rdf:about="2009/agents/68">
        <pgterms:name>Austen, Jane</pgterms:name>
        <pgterms:birthdate rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">1775</pgterms:birthdate>
        <pgterms:deathdate rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">1817</pgterms:deathdate>
      </pgterms:agent>
    </dcterms:creator>
    <marcrel:edt>
      <pgterms:agent rdf:about="2009/agents/999">
        <pgterms:name>Doe, Jane</pgterms:name>
      </pgterms:agent>
    </marcrel:edt>
    <dcterms:language>
      <rdf:Description rdf:nodeID="N2">
        <rdf:value rdf:datatype="http://purl.org/dc/terms/RFC4646">en</rdf:value>
      </rdf:Description>
    </dcterms:language>
    <dcterms:subject>
      <rdf:Description rdf:nodeID="N3">
        <dcam:memberOf rdf:resource="http://purl.org/dc/terms/LCSH"/>
        <rdf:value>England -- Fiction</rdf:value>
      </rdf:Description>
    </dcterms:subject>
    <dcterms:subject>
      <rdf:Description rdf:nodeID="N4">
        <dcam:memberOf rdf:resource="http://purl.org/dc/terms/LCC"/>
        <rdf:value>PR</rdf:value>
      </rdf:Description>
    </dcterms:subject>
    <pgterms:bookshelf>
      <rdf:Description rdf:nodeID="N5">
        <dcam:memberOf rdf:resource="2009/pgterms/Bookshelf"/>
        <rdf:value>Best Books Ever Listings</rdf:value>
      </rdf:Description>
    </pgterms:bookshelf>
    <pgterms:marc520>A novel of manners.</pgterms:marc520>
    <dcterms:hasFormat>
      <pgterms:file rdf:about="https://www.gutenberg.org/ebooks/1342.epub.images">
        <dcterms:format>
          <rdf:Description rdf:nodeID="N6">
            <rdf:value rdf:datatype="http://purl.org/dc/terms/IMT">application/epub+zip</rdf:value>
          </rdf:Description>
        </dcterms:format>
      </pgterms:file>
    </dcterms:hasFormat>
    <dcterms:hasFormat>
      <pgterms:file rdf:about="https://www.gutenberg.org/files/1342/1342-0.zip">
        <dcterms:format>
          <rdf:Description rdf:nodeID="N7">
            <rdf:value rdf:datatype="http://purl.org/dc/terms/IMT">text/plain; charset=utf-8</rdf:value>
          </rdf:Description>
        </dcterms:format>
        <dcterms:format>
          <rdf:Description rdf:nodeID="N8">
            <rdf:value rdf:datatype="http://purl.org/dc/terms/IMT">application/zip</rdf:value>
          </rdf:Description>
        </dcterms:format>
      </pgterms:file>
    </dcterms:hasFormat>
  </pgterms:ebook>
</rdf:RDF>`

func TestParse(t *testing.T) {
	rec, err := Parse(1342, strings.NewReader(sampleRecord))
	require.NoError(t, err)

	assert.Equal(t, 1342, rec.ID)
	require.NotNil(t, rec.Title)
	assert.Equal(t, "Pride and Prejudice", *rec.Title)
	require.NotNil(t, rec.Copyright)
	assert.False(t, *rec.Copyright)
	assert.Equal(t, 45000, rec.Downloads)
	assert.Equal(t, "Text", rec.Type)

	require.Len(t, rec.Authors, 1)
	assert.Equal(t, "Austen, Jane", rec.Authors[0].Name)
	require.NotNil(t, rec.Authors[0].Birth)
	assert.Equal(t, 1775, *rec.Authors[0].Birth)
	assert.Equal(t, 1817, *rec.Authors[0].Death)

	require.Len(t, rec.Editors, 1)
	assert.Nil(t, rec.Editors[0].Birth)
	assert.Empty(t, rec.Translators)

	assert.Equal(t, []string{"en"}, rec.Languages)
	assert.Equal(t, []string{"England -- Fiction", "PR"}, rec.Subjects)
	assert.Equal(t, []string{"Best Books Ever Listings"}, rec.Bookshelves)
	assert.Equal(t, []string{"A novel of manners."}, rec.Summaries)

	assert.Equal(t, map[string]string{
		"application/epub+zip":      "https://www.gutenberg.org/ebooks/1342.epub.images",
		"text/plain; charset=utf-8": "https://www.gutenberg.org/files/1342/1342-0.zip",
	}, rec.Formats)
}

func TestParse_Copyrighted(t *testing.T) {
	doc := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/" xmlns:dcterms="http://purl.org/dc/terms/">
  <pgterms:ebook rdf:about="ebooks/7"><dcterms:rights>Copyrighted. Read the copyright notice.</dcterms:rights></pgterms:ebook>
</rdf:RDF>`
	rec, err := Parse(7, strings.NewReader(doc))
	require.NoError(t, err)
	require.NotNil(t, rec.Copyright)
	assert.True(t, *rec.Copyright)
	assert.Nil(t, rec.Title)
	assert.Empty(t, rec.Formats)
}

func TestParse_NoEbook(t *testing.T) {
	_, err := Parse(1, strings.NewReader(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`))
	assert.ErrorContains(t, err, "no ebook element")
}

func TestReader_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/live/1342/pg1342.rdf", []byte(sampleRecord), 0o644))

	rec, err := NewReader(fs).Read(1342, "/live/1342/pg1342.rdf")
	require.NoError(t, err)
	assert.Equal(t, "Text", rec.Type)

	_, err = NewReader(fs).Read(1, "/live/1/pg1.rdf")
	assert.Error(t, err)
}
