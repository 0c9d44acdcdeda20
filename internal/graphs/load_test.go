package graphs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pow/internal/progress"
	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/testutil"
)

func TestLoadAll_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		seed       int64
		contexts   int
		perContext int
	}{
		{"single context", 1, 1, 10},
		{"many small contexts", 2, 20, 3},
		{"larger than one batch", 3, 2, 4500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			src := testutil.OpenStore(t)
			testutil.Populate(t, src, testutil.RandomQuads(tt.seed, tt.contexts, tt.perContext))
			require.NoError(t, src.CreateContext(ctx, "http://example.org/empty"))

			dir := t.TempDir()
			_, err := NewSerializer(src, SerializerOptions{}).Serialize(ctx, dir)
			require.NoError(t, err)

			dst := testutil.OpenStore(t)
			n, err := NewLoader(dst, LoaderOptions{}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)
			require.NoError(t, err)
			assert.Equal(t, tt.contexts*tt.perContext, n)

			if diff := cmp.Diff(testutil.Snapshot(t, src), testutil.Snapshot(t, dst)); diff != "" {
				t.Fatalf("store differs after round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadAll_RoundTripAwkwardTerms(t *testing.T) {
	ctx := context.Background()
	s, p := rdf.IRI("http://example.org/s"), rdf.IRI("http://example.org/p")
	src := testutil.OpenStore(t)
	require.NoError(t, src.AddBatch(ctx, "http://example.org/g", []rdf.Triple{
		rdf.T(s, p, rdf.Literal("line one\nline two\r\n")),
		rdf.T(s, p, rdf.Literal(`back\slash and "quotes"`)),
		rdf.T(s, p, rdf.Literal("tab\tand unicode é ✓")),
		rdf.T(s, p, rdf.LangLiteral("grüß", "de-AT")),
		rdf.T(rdf.Blank("node-1"), p, rdf.IRI("http://example.org/path?q=1#frag")),
	}))
	require.Error(t, src.AddBatch(ctx, "http://example.org/g", []rdf.Triple{
		rdf.T(rdf.Term("<http://example.org/a b>"), p, rdf.Literal("x")),
	}))
	require.Error(t, src.AddBatch(ctx, "http://example.org/g", []rdf.Triple{
		rdf.T(s, p, rdf.Term("\"raw\nnewline\"")),
	}))
	require.Error(t, src.AddBatch(ctx, "http://example.org/g", []rdf.Triple{
		rdf.T(s, p, rdf.Term(`"abc`)),
	}))

	dir := t.TempDir()
	_, err := NewSerializer(src, SerializerOptions{}).Serialize(ctx, dir)
	require.NoError(t, err)

	dst := testutil.OpenStore(t)
	n, err := NewLoader(dst, LoaderOptions{}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	if diff := cmp.Diff(testutil.Snapshot(t, src), testutil.Snapshot(t, dst)); diff != "" {
		t.Fatalf("store differs after round trip (-want +got):\n%s", diff)
	}
}

func TestLoadAll_NoIndexIsNoop(t *testing.T) {
	ctx := context.Background()
	dst := testutil.OpenStore(t)
	require.NoError(t, dst.AddBatch(ctx, "http://e/existing", []rdf.Triple{testutil.Triple("a", "p", "1")}))
	before := testutil.Snapshot(t, dst)

	dir := t.TempDir()
	n, err := NewLoader(dst, LoaderOptions{}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, before, testutil.Snapshot(t, dst))
}

func TestLoadAll_MissingFileRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// One valid file and one missing file. The valid one sorts first so it is
	// fully inserted before the failure.
	valid := "<http://e/s> <http://e/p> \"o\" .\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nt"), []byte(valid), 0o644))
	require.NoError(t, WriteIndexFile(filepath.Join(dir, IndexFileName), []IndexEntry{
		{FileName: "a.nt", ContextID: "http://e/valid"},
		{FileName: "b.nt", ContextID: "http://e/missing"},
	}))

	dst := testutil.OpenStore(t)
	require.NoError(t, dst.AddBatch(ctx, "http://e/existing", []rdf.Triple{testutil.Triple("a", "p", "1")}))
	before := testutil.Snapshot(t, dst)

	n, err := NewLoader(dst, LoaderOptions{}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)

	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "http://e/missing", le.Entry.ContextID)

	assert.Equal(t, before, testutil.Snapshot(t, dst))
}

func TestLoadAll_MalformedFileRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.nt"),
		[]byte("<http://e/s> <http://e/p> \"o\" .\nnot a triple\n"), 0o644))
	require.NoError(t, WriteIndexFile(filepath.Join(dir, IndexFileName), []IndexEntry{
		{FileName: "a.nt", ContextID: "http://e/g"},
	}))

	dst := testutil.OpenStore(t)
	_, err := NewLoader(dst, LoaderOptions{BatchSize: 1}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)

	var se *rdf.SyntaxError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, 2, se.Line)
	assert.Empty(t, testutil.Snapshot(t, dst))
}

func TestLoadAll_MalformedIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFileName), []byte("no-separator\n"), 0o644))

	_, err := NewLoader(testutil.OpenStore(t), LoaderOptions{}).LoadAll(context.Background(), filepath.Join(dir, IndexFileName), dir)
	assert.True(t, IsIndexParseError(err))
}

func TestLoadAll_CancelledContext(t *testing.T) {
	src := sampleStore(t)
	dir := t.TempDir()
	_, err := NewSerializer(src, SerializerOptions{}).Serialize(context.Background(), dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dst := testutil.OpenStore(t)
	_, err = NewLoader(dst, LoaderOptions{}).LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)
	require.Error(t, err)
	assert.Empty(t, testutil.Snapshot(t, dst))
}

func TestLoadAll_ReportsProgress(t *testing.T) {
	ctx := context.Background()
	src := sampleStore(t)
	dir := t.TempDir()
	_, err := NewSerializer(src, SerializerOptions{}).Serialize(ctx, dir)
	require.NoError(t, err)

	ctxProg, tripProg := &progress.Recorder{}, &progress.Recorder{}
	l := NewLoader(testutil.OpenStore(t), LoaderOptions{Contexts: ctxProg, Triples: tripProg})
	n, err := l.LoadAll(ctx, filepath.Join(dir, IndexFileName), dir)
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, 3, ctxProg.Total())
	assert.Equal(t, 3, ctxProg.Done())
	assert.Equal(t, 5, tripProg.Done())
	assert.Equal(t, []string{"Finalizing writes to database...", "Loaded 5 triples"}, ctxProg.Messages())
}
