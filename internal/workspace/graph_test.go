package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/testutil"
)

const (
	ntDoc = "<http://example.org/a> <http://example.org/p> \"1\" .\n" +
		"<http://example.org/b> <http://example.org/p> \"2\" .\n"
	nqDoc = "<http://example.org/a> <http://example.org/p> \"1\" <http://e/g1> .\n" +
		"<http://example.org/b> <http://example.org/p> \"2\" <http://e/g2> .\n" +
		"<http://example.org/c> <http://example.org/p> \"3\" .\n"
)

func TestFileAccessorFinder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "g.nt"), ntDoc)
	writeFile(t, filepath.Join(dir, "g.txt"), ntDoc)
	f := FileAccessorFinder{BaseDir: dir}

	_, ok := f.Find("g.nt")
	assert.True(t, ok)
	_, ok = f.Find("file://" + filepath.Join(dir, "g.nt"))
	assert.True(t, ok)
	_, ok = f.Find("g.txt")
	assert.False(t, ok, "unknown extension")
	_, ok = f.Find("missing.nt")
	assert.False(t, ok)
	_, ok = f.Find("https://example.org/g.nt")
	assert.False(t, ok)
}

func TestFetchGraph_Errors(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, Options{})
	_, err := w.FetchGraph(ctx, "x.nt")
	assert.ErrorIs(t, err, ErrNoAccessorFinder)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.nt"), "garbage\n")
	w = newWorkspace(t, Options{GraphAccessors: FileAccessorFinder{BaseDir: dir}})

	var ug *UnreadableGraphError
	_, err = w.FetchGraph(ctx, "missing.nt")
	require.ErrorAs(t, err, &ug)
	assert.Equal(t, "missing.nt", ug.URL)
	assert.Contains(t, err.Error(), "could not read the graph at missing.nt")

	_, err = w.FetchGraph(ctx, "bad.nt")
	require.ErrorAs(t, err, &ug)
	var se *rdf.SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestAddGraph_IntoNamedContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "g.nq"), nqDoc)
	w := initWorkspace(t, Options{GraphAccessors: FileAccessorFinder{BaseDir: dir}})

	n, err := w.AddGraph(context.Background(), "g.nq", "http://e/g1")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "statements from other contexts are skipped")

	snap := snapshot(t, w)
	assert.Equal(t, map[string][]rdf.Triple{
		"http://e/g1": {
			testutil.Triple("a", "p", "1"),
			testutil.Triple("c", "p", "3"),
		},
	}, snap)
}

func TestAddGraph_UsesCurrentContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "g.nq"), nqDoc)
	w := initWorkspace(t, Options{GraphAccessors: FileAccessorFinder{BaseDir: dir}})
	ctx := context.Background()

	_, err := w.AddGraph(ctx, "g.nq", "")
	require.ErrorIs(t, err, ErrNoContext)
	assert.Empty(t, snapshot(t, w), "nothing written on error")

	require.NoError(t, w.SetContext("http://e/current"))
	n, err := w.AddGraph(ctx, "g.nq", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap := snapshot(t, w)
	assert.Equal(t, []rdf.Triple{testutil.Triple("a", "p", "1")}, snap["http://e/g1"])
	assert.Equal(t, []rdf.Triple{testutil.Triple("b", "p", "2")}, snap["http://e/g2"])
	assert.Equal(t, []rdf.Triple{testutil.Triple("c", "p", "3")}, snap["http://e/current"])
}
