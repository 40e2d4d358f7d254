// Package normalisers provides implementations of the Normaliser interface
// for the document formats askdoc ingests. Each normaliser knows how to
// extract text content from a specific MIME type; the shared Clean
// function normalises the extracted text before chunking.
package normalisers
