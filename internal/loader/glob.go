package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// SourcePathAttr is the data source attribute naming the directory a
// GlobLoader copies from.
const SourcePathAttr = "path"

// GlobLoader copies files matching doublestar patterns from a local
// directory into its sandbox.
type GlobLoader struct {
	key      string
	kind     string
	patterns []string
}

// NewGlobLoader returns a loader for data sources of the given kind. With
// no patterns every file is copied.
func NewGlobLoader(kind string, patterns ...string) (*GlobLoader, error) {
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &GlobLoader{
		key:      DefaultKey(kind, "glob"),
		kind:     kind,
		patterns: patterns,
	}, nil
}

func (g *GlobLoader) Key() string { return g.key }

func (g *GlobLoader) CanLoad(src DataSource) bool {
	return src.Kind == g.kind && src.Attr(SourcePathAttr) != ""
}

// Load copies matching files into <sandbox>/<sha256(src.ID)> and returns
// that directory relative to the sandbox.
func (g *GlobLoader) Load(ctx context.Context, src DataSource, sandbox string) (string, error) {
	root := src.Attr(SourcePathAttr)
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", root)
	}
	matches, err := g.match(root)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(src.ID))
	rel := hex.EncodeToString(sum[:])
	dest := filepath.Join(sandbox, rel)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", err
	}

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := copyFile(filepath.Join(root, m), filepath.Join(dest, m)); err != nil {
			return "", fmt.Errorf("copy %s: %w", m, err)
		}
	}
	return rel, nil
}

// match returns the regular files under root matching any pattern, as
// slash-separated relative paths in sorted order.
func (g *GlobLoader) match(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var out []string
	for _, p := range g.patterns {
		names, err := doublestar.Glob(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", p, root, err)
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			info, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
			if err != nil {
				return nil, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func copyFile(from, to string) error {
	from, to = filepath.FromSlash(from), filepath.FromSlash(to)
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return err
	}
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(to)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
