package graphs

import (
	"context"

	"github.com/roach88/pow/internal/rdf"
)

// DefaultBatchSize is used by NewBatchWriter when size is below 1.
const DefaultBatchSize = 1000

// BatchWriter accumulates triples for one context and hands them to an
// rdf.Inserter in batches.
//
// Close must be called with the caller's error: on success the remaining
// buffer is flushed, on error it is discarded so a half-built batch never
// reaches the store.
type BatchWriter struct {
	dest      rdf.Inserter
	contextID string
	size      int
	batch     []rdf.Triple
	count     int
	flushes   int
	closed    bool
}

// NewBatchWriter creates a writer flushing every size triples.
// A size below 1 selects DefaultBatchSize.
func NewBatchWriter(dest rdf.Inserter, contextID string, size int) *BatchWriter {
	if size < 1 {
		size = DefaultBatchSize
	}
	return &BatchWriter{
		dest:      dest,
		contextID: contextID,
		size:      size,
		batch:     make([]rdf.Triple, 0, size),
	}
}

// Add buffers t and flushes when the buffer is full.
func (w *BatchWriter) Add(ctx context.Context, t rdf.Triple) error {
	if w.closed {
		return ErrWriterClosed
	}
	w.batch = append(w.batch, t)
	w.count++
	if len(w.batch) >= w.size {
		return w.flush(ctx)
	}
	return nil
}

// Count returns the number of triples accepted so far.
func (w *BatchWriter) Count() int {
	return w.count
}

// Flushes returns the number of batches handed to the inserter.
func (w *BatchWriter) Flushes() int {
	return w.flushes
}

// ContextID returns the target context.
func (w *BatchWriter) ContextID() string {
	return w.contextID
}

// Close releases the writer. With cause == nil the remaining buffer is
// flushed and any flush error returned; otherwise the buffer is dropped and
// cause is returned unchanged. Calling Close again is a no-op that returns
// cause.
//
//	defer func() { err = w.Close(ctx, err) }()
func (w *BatchWriter) Close(ctx context.Context, cause error) error {
	if w.closed {
		return cause
	}
	w.closed = true
	if cause != nil {
		w.batch = nil
		return cause
	}
	if len(w.batch) == 0 {
		return nil
	}
	return w.flush(ctx)
}

func (w *BatchWriter) flush(ctx context.Context) error {
	if err := w.dest.AddBatch(ctx, w.contextID, w.batch); err != nil {
		return err
	}
	w.flushes++
	w.batch = make([]rdf.Triple, 0, w.size)
	return nil
}

// WithBatch runs fn with a fresh BatchWriter and closes it with fn's result.
// It returns the number of triples fn added.
func WithBatch(ctx context.Context, dest rdf.Inserter, contextID string, size int, fn func(w *BatchWriter) error) (int, error) {
	w := NewBatchWriter(dest, contextID, size)
	err := w.Close(ctx, fn(w))
	return w.Count(), err
}
