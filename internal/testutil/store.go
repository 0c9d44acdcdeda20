// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/store"
)

// OpenStore opens a fresh store in a temp dir and closes it on cleanup.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "worm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// Populate adds every quad to st, grouped by context.
func Populate(t testing.TB, st *store.Store, quads []rdf.Quad) {
	t.Helper()
	ctx := context.Background()
	byContext := map[string][]rdf.Triple{}
	var order []string
	for _, q := range quads {
		if _, ok := byContext[q.Context]; !ok {
			order = append(order, q.Context)
		}
		byContext[q.Context] = append(byContext[q.Context], q.Triple)
	}
	for _, id := range order {
		if err := st.AddBatch(ctx, id, byContext[id]); err != nil {
			t.Fatalf("populate %s: %v", id, err)
		}
	}
}

// Snapshot returns the contents of st as context id -> sorted triples.
// Empty contexts map to an empty, non-nil slice.
func Snapshot(t testing.TB, st *store.Store) map[string][]rdf.Triple {
	t.Helper()
	ctx := context.Background()
	ids, err := st.Contexts(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap := make(map[string][]rdf.Triple, len(ids))
	for _, id := range ids {
		triples, err := st.Triples(ctx, id)
		if err != nil {
			t.Fatalf("snapshot %s: %v", id, err)
		}
		snap[id] = triples
	}
	return snap
}
