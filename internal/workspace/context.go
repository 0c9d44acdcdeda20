package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/pow/internal/rdf"
)

// ContextPath returns the file holding the current target context.
func (w *Workspace) ContextPath() string {
	return filepath.Join(w.opts.BaseDir, ContextFileName)
}

// Context returns the current target context. ok is false when none is
// set.
func (w *Workspace) Context() (id string, ok bool, err error) {
	data, err := os.ReadFile(w.ContextPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	id = strings.TrimRight(string(data), "\r\n")
	return id, id != "", nil
}

// SetContext records id as the current target context.
func (w *Workspace) SetContext(id string) error {
	if id == "" {
		return errors.New("context identifier is empty")
	}
	if err := os.WriteFile(w.ContextPath(), []byte(id+"\n"), 0o644); err != nil {
		return fmt.Errorf("write context file: %w", err)
	}
	return nil
}

// ListContexts returns the identifiers of every context in the store.
func (w *Workspace) ListContexts(ctx context.Context) ([]string, error) {
	st, err := w.Store()
	if err != nil {
		return nil, err
	}
	return st.Contexts(ctx)
}

// Serialize writes the whole store to out. N-Quads keeps every statement
// with its context label; N-Triples merges all contexts into one sorted
// set of distinct triples.
func (w *Workspace) Serialize(ctx context.Context, out io.Writer, format rdf.Format) error {
	st, err := w.Store()
	if err != nil {
		return err
	}
	quads, err := st.Quads(ctx)
	if err != nil {
		return err
	}

	enc := rdf.NewEncoder(out, format)
	if format == rdf.NQuads {
		for _, q := range quads {
			if err := enc.Encode(q); err != nil {
				return err
			}
		}
		return enc.Flush()
	}

	triples := make([]rdf.Triple, len(quads))
	for i, q := range quads {
		triples[i] = q.Triple
	}
	rdf.SortTriples(triples)
	for i, t := range triples {
		if i > 0 && t == triples[i-1] {
			continue
		}
		if err := enc.EncodeTriple(t); err != nil {
			return err
		}
	}
	return enc.Flush()
}
