package loader

import (
	"context"
	"os"
	"strings"
)

// DataSource describes something a loader can materialize on disk.
type DataSource struct {
	ID         string
	Kind       string
	Attributes map[string]string
}

// Attr returns the named attribute, or "" if unset.
func (s DataSource) Attr(name string) string {
	return s.Attributes[name]
}

// Loader materializes data sources into a directory it owns.
//
// Load receives the loader's sandbox directory and returns the directory
// holding the materialized files, absolute or relative to the sandbox.
type Loader interface {
	Key() string
	CanLoad(src DataSource) bool
	Load(ctx context.Context, src DataSource, sandbox string) (string, error)
}

// DefaultKey builds a sandbox key from a loader's kind and name. The result
// is lower case and safe to use as a single path component.
func DefaultKey(kind, name string) string {
	key := strings.ToLower(kind + "." + name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

// DirLoader runs a Loader and validates the directory it returns against
// its sandbox.
type DirLoader struct {
	Loader Loader
	// BaseDir is the canonical sandbox directory.
	BaseDir string
}

// NewDirLoader creates the sandbox directory if needed and returns a
// DirLoader rooted at its canonical path.
func NewDirLoader(l Loader, baseDir string) (*DirLoader, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	base, err := Canonicalize(baseDir)
	if err != nil {
		return nil, err
	}
	return &DirLoader{Loader: l, BaseDir: base}, nil
}

// Resolve loads src and returns the canonical directory holding its files.
// Every failure is a *LoadFailure.
func (d *DirLoader) Resolve(ctx context.Context, src DataSource) (string, error) {
	key := d.Loader.Key()

	raw, err := d.Loader.Load(ctx, src, d.BaseDir)
	if err != nil {
		return "", &LoadFailure{Source: src.ID, Loader: key, Reason: err}
	}

	path, err := ResolvePath(d.BaseDir, raw)
	if err != nil {
		if path == "" {
			path = raw
		}
		return "", &LoadFailure{Source: src.ID, Loader: key, Reason: err, Path: path}
	}
	return path, nil
}
