package workspace

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/rdf"
)

// GraphAccessor fetches the statements of one graph.
type GraphAccessor interface {
	Fetch(ctx context.Context) ([]rdf.Quad, error)
}

// GraphAccessorFinder returns an accessor for url, or false if it cannot
// handle it.
type GraphAccessorFinder interface {
	Find(url string) (GraphAccessor, bool)
}

// FileAccessorFinder reads local N-Triples (.nt) and N-Quads (.nq) files,
// given as plain paths or file:// URLs. Relative paths are resolved against
// BaseDir.
type FileAccessorFinder struct {
	BaseDir string
}

func (f FileAccessorFinder) Find(raw string) (GraphAccessor, bool) {
	path := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme == "file" {
		path = u.Path
	} else if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return nil, false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.BaseDir, path)
	}

	var format rdf.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		format = rdf.NTriples
	case ".nq":
		format = rdf.NQuads
	default:
		return nil, false
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return fileAccessor{path: path, format: format}, true
}

type fileAccessor struct {
	path   string
	format rdf.Format
}

func (a fileAccessor) Fetch(ctx context.Context) ([]rdf.Quad, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := rdf.NewDecoder(f, a.format)
	var quads []rdf.Quad
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return quads, nil
		}
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
}

// FetchGraph returns the statements of the graph at url.
func (w *Workspace) FetchGraph(ctx context.Context, url string) ([]rdf.Quad, error) {
	if w.opts.GraphAccessors == nil {
		return nil, ErrNoAccessorFinder
	}
	acc, ok := w.opts.GraphAccessors.Find(url)
	if !ok {
		return nil, &UnreadableGraphError{URL: url}
	}
	quads, err := acc.Fetch(ctx)
	if err != nil {
		return nil, &UnreadableGraphError{URL: url, Err: err}
	}
	return quads, nil
}

// AddGraph fetches the graph at url and adds it to the store. It returns
// the number of statements written.
//
// With contextID set, only statements labelled with that context or not
// labelled at all are added, all into contextID. Otherwise labelled
// statements keep their context and unlabelled ones go to the current
// target context; ErrNoContext is returned if there is none.
func (w *Workspace) AddGraph(ctx context.Context, url, contextID string) (int, error) {
	quads, err := w.FetchGraph(ctx, url)
	if err != nil {
		return 0, err
	}

	fallback := contextID
	if fallback == "" {
		if cur, ok, err := w.Context(); err != nil {
			return 0, err
		} else if ok {
			fallback = cur
		}
	}

	groups := make(map[string][]rdf.Triple)
	var order []string
	for _, q := range quads {
		target := q.Context
		switch {
		case contextID != "" && target != "" && target != contextID:
			continue
		case target == "":
			if fallback == "" {
				return 0, ErrNoContext
			}
			target = fallback
		}
		if _, seen := groups[target]; !seen {
			order = append(order, target)
		}
		groups[target] = append(groups[target], q.Triple)
	}

	st, err := w.Store()
	if err != nil {
		return 0, err
	}
	total := 0
	err = st.Update(ctx, func(tx rdf.Inserter) error {
		for _, id := range order {
			n, err := graphs.WithBatch(ctx, tx, id, graphs.DefaultBatchSize, func(bw *graphs.BatchWriter) error {
				for _, t := range groups[id] {
					if err := bw.Add(ctx, t); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	w.opts.Logger.Info("added graph", "url", url, "contexts", len(order), "triples", total)
	return total, nil
}
