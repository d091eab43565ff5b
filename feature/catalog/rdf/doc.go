// Package rdf reads the per-item RDF/XML records of the catalog bundle.
//
// Only the fields the catalog stores are extracted: title, rights, download
// count, media type, creators in their three roles, bookshelves, languages,
// subjects, formats and summaries.
package rdf
