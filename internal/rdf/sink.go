package rdf

import "context"

// TripleSink receives triples one at a time. graphs.BatchWriter implements it.
type TripleSink interface {
	Add(ctx context.Context, t Triple) error
}

// Inserter adds a batch of triples to a named context, creating the context
// if it does not exist yet. Both the store and its transactions implement it.
type Inserter interface {
	AddBatch(ctx context.Context, contextID string, triples []Triple) error
}
