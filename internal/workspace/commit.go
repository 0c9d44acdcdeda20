package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/repo"
)

// Commit writes the store's graphs to the repository and commits them.
func (w *Workspace) Commit(ctx context.Context, message string) error {
	r, err := w.repository(ctx)
	if err != nil {
		return err
	}
	if _, err := w.serializeGraphs(ctx, r); err != nil {
		return err
	}
	return r.Commit(ctx, message)
}

// Diff serializes the graphs and reports how the staged result differs
// from the last commit. Untracked files, such as the store itself, are
// left out.
func (w *Workspace) Diff(ctx context.Context) ([]repo.Change, error) {
	r, err := w.repository(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := w.serializeGraphs(ctx, r); err != nil {
		return nil, err
	}
	changes, err := r.Status(ctx)
	if err != nil {
		return nil, err
	}
	tracked := changes[:0]
	for _, c := range changes {
		if c.Tracked() {
			tracked = append(tracked, c)
		}
	}
	return tracked, nil
}

// serializeGraphs replaces graphs/ with a fresh serialization of the store
// and stages it together with the configuration file.
func (w *Workspace) serializeGraphs(ctx context.Context, r repo.Provider) ([]graphs.IndexEntry, error) {
	st, err := w.Store()
	if err != nil {
		return nil, err
	}

	dirty, err := r.IsDirty(ctx)
	if err != nil {
		return nil, err
	}
	if dirty {
		w.opts.Logger.Debug("resetting dirty repository")
		if err := r.Reset(ctx); err != nil {
			return nil, err
		}
	}

	dir := w.GraphsDir()
	ok, err := exists(dir)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := r.Remove(ctx, []string{GraphsDirName}, true); err != nil {
			return nil, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	s := graphs.NewSerializer(st, graphs.SerializerOptions{Logger: w.opts.Logger})
	entries, err := s.Serialize(ctx, dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries)+3)
	for _, e := range entries {
		paths = append(paths, GraphsDirName+"/"+e.FileName)
	}
	paths = append(paths, GraphsDirName+"/"+graphs.IndexFileName)
	if rel, ok := w.relToPowDir(w.ConfigPath()); ok {
		paths = append(paths, rel)
	}
	paths = append(paths, GraphsDirName)
	if err := r.Add(ctx, paths); err != nil {
		return nil, err
	}

	w.opts.Logger.Debug("serialized graphs", "dir", dir, "contexts", len(entries))
	return entries, nil
}

// relToPowDir returns path relative to the powdir if it lies inside it.
func (w *Workspace) relToPowDir(path string) (string, bool) {
	powdir, err := filepath.Abs(w.PowDir())
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(powdir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
