package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/rdf"
	"github.com/roach88/pow/internal/store"
)

// Options configures Run. The zero value is usable.
type Options struct {
	// Logger receives serializer and loader output. Defaults to a logger
	// that discards everything.
	Logger *slog.Logger

	// KeepDir, when set, is used as the working directory and left in
	// place afterwards. Otherwise a temp dir is created and removed.
	KeepDir string
}

// Run executes a scenario and returns the result.
//
// Each run uses two fresh stores in its own directory:
// 1. Fill the source store from the scenario
// 2. Serialize the source store to graphs/
// 3. Reload graphs/ into the second store
// 4. Compare both stores, then evaluate assertions
//
// The returned error covers failures to carry out the run; failed checks
// are reported through Result.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir := opts.KeepDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "pow-harness-")
		if err != nil {
			return nil, fmt.Errorf("failed to create work dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}

	quads, err := scenario.Quads()
	if err != nil {
		return nil, err
	}

	source, err := store.Open(filepath.Join(dir, "source.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open source store: %w", err)
	}
	defer source.Close()

	if err := fill(ctx, source, scenario.ContextIDs(), quads); err != nil {
		return nil, fmt.Errorf("failed to fill source store: %w", err)
	}

	graphsDir := filepath.Join(dir, "graphs")
	if err := os.MkdirAll(graphsDir, 0755); err != nil {
		return nil, err
	}
	entries, err := graphs.NewSerializer(source, graphs.SerializerOptions{Logger: logger}).Serialize(ctx, graphsDir)
	if err != nil {
		return nil, err
	}

	reloaded, err := store.Open(filepath.Join(dir, "reloaded.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open reload store: %w", err)
	}
	defer reloaded.Close()

	loader := graphs.NewLoader(reloaded, graphs.LoaderOptions{
		BatchSize: scenario.BatchSize,
		Logger:    logger,
	})
	n, err := loader.LoadAll(ctx, filepath.Join(graphsDir, graphs.IndexFileName), graphsDir)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Index = entries
	result.Loaded = n
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(graphsDir, e.FileName))
		if err != nil {
			return nil, err
		}
		result.Files[e.FileName] = string(data)
	}

	before, err := snapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	after, err := snapshot(ctx, reloaded)
	if err != nil {
		return nil, err
	}
	result.State = after

	if diff := cmp.Diff(before, after, cmpopts.EquateEmpty()); diff != "" {
		result.AddError(fmt.Sprintf("round trip changed the store (-source +reloaded):\n%s", diff))
	}

	for i, a := range scenario.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass, "contexts", len(entries), "triples", n)
	return result, nil
}

// fill adds the declared contexts, then every quad, in one transaction.
func fill(ctx context.Context, st *store.Store, ids []string, quads []rdf.Quad) error {
	return st.Update(ctx, func(tx rdf.Inserter) error {
		for _, id := range ids {
			if err := tx.AddBatch(ctx, id, nil); err != nil {
				return err
			}
		}
		for _, q := range quads {
			if err := tx.AddBatch(ctx, q.Context, []rdf.Triple{q.Triple}); err != nil {
				return err
			}
		}
		return nil
	})
}

func snapshot(ctx context.Context, st *store.Store) (map[string][]rdf.Triple, error) {
	ids, err := st.Contexts(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(map[string][]rdf.Triple, len(ids))
	for _, id := range ids {
		triples, err := st.Triples(ctx, id)
		if err != nil {
			return nil, err
		}
		snap[id] = triples
	}
	return snap, nil
}
