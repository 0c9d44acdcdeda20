package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/pow/internal/rdf"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func triple(s, p, o string) rdf.Triple {
	return rdf.T(rdf.IRI("http://example.org/"+s), rdf.IRI("http://example.org/"+p), rdf.Literal(o))
}
