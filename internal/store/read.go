package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pow/internal/rdf"
)

// Contexts returns every context identifier in byte order.
func (s *Store) Contexts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM contexts
		ORDER BY id COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list contexts: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	return ids, nil
}

// HasContext reports whether the context exists, even if empty.
func (s *Store) HasContext(ctx context.Context, contextID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contexts WHERE id = ?`, contextID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has context %s: %w", contextID, err)
	}
	return n > 0, nil
}

// Triples returns the triples of one context in canonical order.
// An unknown context yields an empty slice.
func (s *Store) Triples(ctx context.Context, contextID string) ([]rdf.Triple, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, predicate, object FROM triples
		WHERE context = ?
		ORDER BY subject COLLATE BINARY, predicate COLLATE BINARY, object COLLATE BINARY
	`, contextID)
	if err != nil {
		return nil, fmt.Errorf("triples of %s: %w", contextID, err)
	}
	defer rows.Close()

	triples := []rdf.Triple{}
	for rows.Next() {
		t, err := scanTriple(rows)
		if err != nil {
			return nil, fmt.Errorf("triples of %s: %w", contextID, err)
		}
		triples = append(triples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("triples of %s: %w", contextID, err)
	}
	return triples, nil
}

// Quads returns every triple in the store with its context, ordered by
// context and then canonical triple order.
func (s *Store) Quads(ctx context.Context) ([]rdf.Quad, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT context, subject, predicate, object FROM triples
		ORDER BY context COLLATE BINARY, subject COLLATE BINARY,
		         predicate COLLATE BINARY, object COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("quads: %w", err)
	}
	defer rows.Close()

	quads := []rdf.Quad{}
	for rows.Next() {
		var q rdf.Quad
		var s, p, o string
		if err := rows.Scan(&q.Context, &s, &p, &o); err != nil {
			return nil, fmt.Errorf("quads: scan: %w", err)
		}
		q.Triple = rdf.T(rdf.Term(s), rdf.Term(p), rdf.Term(o))
		quads = append(quads, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quads: %w", err)
	}
	return quads, nil
}

// Count returns the number of triples in a context.
func (s *Store) Count(ctx context.Context, contextID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM triples WHERE context = ?`, contextID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", contextID, err)
	}
	return n, nil
}

// CountAll returns the number of triples across all contexts.
func (s *Store) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM triples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count all: %w", err)
	}
	return n, nil
}

func scanTriple(rows *sql.Rows) (rdf.Triple, error) {
	var s, p, o string
	if err := rows.Scan(&s, &p, &o); err != nil {
		return rdf.Triple{}, fmt.Errorf("scan: %w", err)
	}
	return rdf.T(rdf.Term(s), rdf.Term(p), rdf.Term(o)), nil
}
