package graphs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/pow/internal/progress"
	"github.com/roach88/pow/internal/rdf"
)

// DefaultLoadBatchSize is the batch size used while reloading files.
const DefaultLoadBatchSize = 4000

// TxBackend runs fn inside a single transaction: either every insert made
// through tx is applied, or none is.
type TxBackend interface {
	Update(ctx context.Context, fn func(tx rdf.Inserter) error) error
}

// LoaderOptions configures a Loader. The zero value is usable.
type LoaderOptions struct {
	// BatchSize for each per-context BatchWriter. Defaults to
	// DefaultLoadBatchSize.
	BatchSize int
	// Contexts receives one unit per file loaded; its total is the number of
	// index entries.
	Contexts progress.Sink
	// Triples receives the triple count of each file after it is loaded.
	Triples progress.Sink
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Loader reloads serialized contexts into a store.
type Loader struct {
	backend   TxBackend
	batchSize int
	contexts  progress.Sink
	triples   progress.Sink
	logger    *slog.Logger
}

// NewLoader creates a Loader writing into backend.
func NewLoader(backend TxBackend, opts LoaderOptions) *Loader {
	l := &Loader{
		backend:   backend,
		batchSize: opts.BatchSize,
		contexts:  opts.Contexts,
		triples:   opts.Triples,
		logger:    opts.Logger,
	}
	if l.batchSize < 1 {
		l.batchSize = DefaultLoadBatchSize
	}
	if l.contexts == nil {
		l.contexts = progress.Nop{}
	}
	if l.triples == nil {
		l.triples = progress.Nop{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// LoadAll reads the index at indexPath and loads every referenced file,
// resolved against baseDir, into the context named by its entry. It returns
// the number of triples read.
//
// A missing index is not an error: there is nothing to load and 0 is
// returned. Any other failure rolls back the whole load.
//
// Progress is reported between files only. The context is checked between
// files; a cancelled context aborts and rolls back.
func (l *Loader) LoadAll(ctx context.Context, indexPath, baseDir string) (int, error) {
	// The index is read in full up front; other tooling may rewrite it while
	// the load is running.
	entries, err := ReadIndexFile(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("no index, nothing to load", "index", indexPath)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	l.contexts.SetTotal(len(entries))

	read := 0
	err = l.backend.Update(ctx, func(tx rdf.Inserter) error {
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := l.loadEntry(ctx, tx, baseDir, e)
			if err != nil {
				return &LoadError{Entry: e, Err: err}
			}
			read += n
			l.contexts.Add(1)
			l.triples.Add(n)
		}
		l.contexts.Message("Finalizing writes to database...")
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.contexts.Message("Loaded " + progress.FormatCount(read) + " triples")
	l.logger.Info("loaded graphs", "contexts", len(entries), "triples", read)
	return read, nil
}

func (l *Loader) loadEntry(ctx context.Context, tx rdf.Inserter, baseDir string, e IndexEntry) (int, error) {
	f, err := os.Open(filepath.Join(baseDir, e.FileName))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// Register the context first so an empty file still yields a context.
	if err := tx.AddBatch(ctx, e.ContextID, nil); err != nil {
		return 0, err
	}

	return WithBatch(ctx, tx, e.ContextID, l.batchSize, func(w *BatchWriter) error {
		_, err := rdf.NewDecoder(f, rdf.NTriples).DecodeTo(ctx, w)
		return err
	})
}
