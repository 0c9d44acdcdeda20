// Package rdf provides the triple model shared by every other package.
//
// Terms are kept in their N-Triples surface form (`<iri>`, `_:label`,
// `"lexical"@lang`, `"lexical"^^<datatype>`), in the canonical spelling the
// constructors produce. Statements are parsed with github.com/knakk/rdf and
// rebuilt through those constructors, so a triple read from a file, inserted
// into the store and written back out is byte-identical from then on.
//
// Ordering of triples is plain byte order over (subject, predicate, object).
// The SQLite store sorts with COLLATE BINARY, which agrees with Go string
// comparison, so both layers produce the same canonical order.
//
// This package imports nothing internal.
package rdf
