package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pow/internal/progress"
	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/repo"
	"github.com/roach88/pow/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newWorkspace returns an uninitialized workspace in a fresh base dir.
func newWorkspace(t *testing.T, opts Options) *Workspace {
	t.Helper()
	if opts.BaseDir == "" {
		opts.BaseDir = t.TempDir()
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	w := New(opts)
	t.Cleanup(func() { w.Close() })
	return w
}

// initWorkspace returns an initialized workspace.
func initWorkspace(t *testing.T, opts Options) *Workspace {
	t.Helper()
	w := newWorkspace(t, opts)
	require.NoError(t, w.Init(context.Background(), false))
	return w
}

func populate(t *testing.T, w *Workspace, quads []rdf.Quad) {
	t.Helper()
	st, err := w.Store()
	require.NoError(t, err)
	testutil.Populate(t, st, quads)
}

func snapshot(t *testing.T, w *Workspace) map[string][]rdf.Triple {
	t.Helper()
	st, err := w.Store()
	require.NoError(t, err)
	return testutil.Snapshot(t, st)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// failingRepo wraps a provider and fails selected operations.
type failingRepo struct {
	repo.Provider
	initErr   error
	cloneErr  error
	commitErr error
}

var errInjected = errors.New("injected failure")

func (f *failingRepo) Init(ctx context.Context, base string) error {
	if f.initErr != nil {
		return f.initErr
	}
	return f.Provider.Init(ctx, base)
}

func (f *failingRepo) Clone(ctx context.Context, url, base string, sink progress.Sink) error {
	if f.cloneErr != nil {
		return f.cloneErr
	}
	return f.Provider.Clone(ctx, url, base, sink)
}

func (f *failingRepo) Commit(ctx context.Context, message string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	return f.Provider.Commit(ctx, message)
}
