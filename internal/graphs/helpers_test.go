package graphs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/store"
	"github.com/roach88/pow/internal/testutil"
)

const (
	foafName  = "http://xmlns.com/foaf/0.1/name"
	foafKnows = "http://xmlns.com/foaf/0.1/knows"
	xsdInt    = "http://www.w3.org/2001/XMLSchema#integer"
)

// sampleStore holds three contexts, one of them empty.
func sampleStore(t *testing.T) *store.Store {
	t.Helper()
	st := testutil.OpenStore(t)
	ctx := context.Background()

	alice, bob := rdf.IRI("http://example.org/alice"), rdf.IRI("http://example.org/bob")
	require.NoError(t, st.AddBatch(ctx, "http://example.org/people", []rdf.Triple{
		rdf.T(bob, rdf.IRI(foafName), rdf.LangLiteral("Bob", "en")),
		rdf.T(alice, rdf.IRI(foafName), rdf.Literal("Alice")),
		rdf.T(alice, rdf.IRI(foafKnows), bob),
	}))
	require.NoError(t, st.AddBatch(ctx, "http://example.org/places", []rdf.Triple{
		rdf.T(rdf.Blank("b0"), rdf.IRI("http://example.org/label"), rdf.Literal("somewhere\n")),
		rdf.T(rdf.IRI("http://example.org/paris"), rdf.IRI("http://example.org/population"), rdf.TypedLiteral("2102650", xsdInt)),
	}))
	require.NoError(t, st.CreateContext(ctx, "http://example.org/empty"))
	return st
}

// dirSnapshot renders the index followed by every indexed file.
func dirSnapshot(t *testing.T, dir string, entries []IndexEntry) []byte {
	t.Helper()
	var buf bytes.Buffer

	index, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	require.NoError(t, err)
	buf.WriteString("== index\n")
	buf.Write(index)

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.FileName))
		require.NoError(t, err)
		buf.WriteString("== " + e.FileName + "\n")
		buf.Write(data)
	}
	return buf.Bytes()
}

// listDir returns the names of all entries in dir, hidden ones included.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		names = append(names, e.Name())
	}
	return names
}
