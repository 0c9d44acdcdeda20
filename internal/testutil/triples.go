package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/roach88/pow/internal/rdf"
)

// Triple builds a triple under http://example.org/ with a literal object.
func Triple(s, p, o string) rdf.Triple {
	return rdf.T(rdf.IRI("http://example.org/"+s), rdf.IRI("http://example.org/"+p), rdf.Literal(o))
}

// RandomQuads generates a deterministic data set for the given seed:
// contexts named http://example.org/graph/<n>, each with perContext
// distinct triples mixing IRIs, blank nodes and literal forms.
func RandomQuads(seed int64, contexts, perContext int) []rdf.Quad {
	r := rand.New(rand.NewSource(seed))
	var quads []rdf.Quad
	for c := 0; c < contexts; c++ {
		id := fmt.Sprintf("http://example.org/graph/%d", c)
		for i := 0; i < perContext; i++ {
			s := rdf.IRI(fmt.Sprintf("http://example.org/s/%d", r.Intn(50)))
			if r.Intn(5) == 0 {
				s = rdf.Blank(fmt.Sprintf("b%d", r.Intn(10)))
			}
			p := rdf.IRI(fmt.Sprintf("http://example.org/p/%d", r.Intn(5)))
			// Every object embeds i, so triples within a context are distinct.
			var o rdf.Term
			switch r.Intn(4) {
			case 0:
				o = rdf.IRI(fmt.Sprintf("http://example.org/o/%d/%d", r.Intn(100), i))
			case 1:
				o = rdf.LangLiteral(fmt.Sprintf("label %d.%d", r.Intn(100), i), "en")
			case 2:
				o = rdf.TypedLiteral(fmt.Sprint(i*1000+r.Intn(1000)), "http://www.w3.org/2001/XMLSchema#integer")
			default:
				o = rdf.Literal(fmt.Sprintf("text\t%d \"q\"\n%d", r.Intn(100), i))
			}
			quads = append(quads, rdf.Quad{Triple: rdf.T(s, p, o), Context: id})
		}
	}
	return quads
}

// RecordingInserter is an in-memory rdf.Inserter that records every batch.
type RecordingInserter struct {
	mu      sync.Mutex
	Batches []RecordedBatch
	// Err, when set, is returned by every AddBatch call.
	Err error
}

// RecordedBatch is one AddBatch call.
type RecordedBatch struct {
	ContextID string
	Triples   []rdf.Triple
}

func (r *RecordingInserter) AddBatch(_ context.Context, contextID string, triples []rdf.Triple) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Batches = append(r.Batches, RecordedBatch{
		ContextID: contextID,
		Triples:   append([]rdf.Triple(nil), triples...),
	})
	return nil
}

// All returns every recorded triple in insertion order.
func (r *RecordingInserter) All() []rdf.Triple {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []rdf.Triple
	for _, b := range r.Batches {
		all = append(all, b.Triples...)
	}
	return all
}
