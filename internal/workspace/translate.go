package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/loader"
	"github.com/roach88/pow/internal/rdf"
)

// FileSourceKind is the data source kind for local files and directories.
const FileSourceKind = "file"

// ImportsPredicate links a context to a context it imports.
const ImportsPredicate = "http://www.w3.org/2002/07/owl#imports"

// TranslateInput is what a Translator receives. Inputs are directories
// holding the materialized files of each data source.
type TranslateInput struct {
	OutputKey  string
	Positional []string
	Named      map[string]string
	// WorkDir is an empty scratch directory removed after the translation.
	WorkDir string
}

// TranslateOutput is one context produced by a translation.
type TranslateOutput struct {
	Context string
	Triples []rdf.Triple
	// Imports lists contexts this one depends on. They are recorded in the
	// imports context.
	Imports []string
}

// Translator turns data source files into graph data.
type Translator interface {
	Translate(ctx context.Context, in TranslateInput) ([]TranslateOutput, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, in TranslateInput) ([]TranslateOutput, error)

func (f TranslatorFunc) Translate(ctx context.Context, in TranslateInput) ([]TranslateOutput, error) {
	return f(ctx, in)
}

// TranslateRequest names a translator and its inputs. Inputs are local
// paths; they are copied through the registered loaders before the
// translator runs. Named inputs are passed through under their names.
type TranslateRequest struct {
	Translator     string
	ImportsContext string
	OutputKey      string
	Positional     []string
	Named          map[string]string
}

// TranslateResult summarizes a translation.
type TranslateResult struct {
	Contexts []string `json:"contexts"`
	Triples  int      `json:"triples"`
}

// Translate runs a translator and saves its output contexts, recording each
// output's imports in the imports context. All writes happen in one
// transaction.
func (w *Workspace) Translate(ctx context.Context, req TranslateRequest) (TranslateResult, error) {
	t, ok := w.opts.Translators[req.Translator]
	if !ok {
		return TranslateResult{}, &UnknownTranslatorError{Name: req.Translator}
	}
	if req.ImportsContext == "" {
		return TranslateResult{}, fmt.Errorf("translate: imports context is required")
	}

	workDir, err := os.MkdirTemp("", "pow-translate")
	if err != nil {
		return TranslateResult{}, err
	}
	defer os.RemoveAll(workDir)

	in := TranslateInput{OutputKey: req.OutputKey, WorkDir: workDir, Named: map[string]string{}}
	for _, p := range req.Positional {
		dir, err := w.materialize(ctx, p)
		if err != nil {
			return TranslateResult{}, err
		}
		in.Positional = append(in.Positional, dir)
	}
	names := make([]string, 0, len(req.Named))
	for k := range req.Named {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		dir, err := w.materialize(ctx, req.Named[k])
		if err != nil {
			return TranslateResult{}, err
		}
		in.Named[k] = dir
	}

	outs, err := t.Translate(ctx, in)
	if err != nil {
		return TranslateResult{}, fmt.Errorf("translator %s: %w", req.Translator, err)
	}

	res, err := w.saveOutputs(ctx, req.ImportsContext, outs)
	if err != nil {
		return TranslateResult{}, err
	}
	w.opts.Logger.Info("translated", "translator", req.Translator, "contexts", len(res.Contexts), "triples", res.Triples)
	return res, nil
}

// materialize copies a local input through the first loader that accepts
// it and returns the sandboxed directory.
func (w *Workspace) materialize(ctx context.Context, input string) (string, error) {
	abs, err := filepath.Abs(resolve(w.opts.BaseDir, input))
	if err != nil {
		return "", err
	}
	src := loader.DataSource{
		ID:         abs,
		Kind:       FileSourceKind,
		Attributes: map[string]string{loader.SourcePathAttr: abs},
	}
	l, ok := w.opts.Loaders.Find(src)
	if !ok {
		return "", fmt.Errorf("no loader for %s", input)
	}
	dl, err := loader.NewDirLoader(l, filepath.Join(w.PowDir(), DataDirName, l.Key()))
	if err != nil {
		return "", err
	}
	return dl.Resolve(ctx, src)
}

func (w *Workspace) saveOutputs(ctx context.Context, importsContext string, outs []TranslateOutput) (TranslateResult, error) {
	st, err := w.Store()
	if err != nil {
		return TranslateResult{}, err
	}

	var res TranslateResult
	err = st.Update(ctx, func(tx rdf.Inserter) error {
		var imports []rdf.Triple
		for _, out := range outs {
			if out.Context == "" {
				return fmt.Errorf("translator output has no context")
			}
			n, err := graphs.WithBatch(ctx, tx, out.Context, graphs.DefaultBatchSize, func(bw *graphs.BatchWriter) error {
				for _, t := range out.Triples {
					if err := bw.Add(ctx, t); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			res.Contexts = append(res.Contexts, out.Context)
			res.Triples += n
			for _, imp := range out.Imports {
				imports = append(imports, rdf.T(rdf.IRI(out.Context), rdf.IRI(ImportsPredicate), rdf.IRI(imp)))
			}
		}
		if len(imports) == 0 {
			return nil
		}
		return tx.AddBatch(ctx, importsContext, imports)
	})
	if err != nil {
		return TranslateResult{}, err
	}
	return res, nil
}

// NTriplesTranslator gathers every .nt and .nq file from its inputs into
// the context named by the output key. Statements in N-Quads files keep
// their own context and are imported by the output context.
func NTriplesTranslator() Translator {
	return TranslatorFunc(func(ctx context.Context, in TranslateInput) ([]TranslateOutput, error) {
		if in.OutputKey == "" {
			return nil, fmt.Errorf("output key is required")
		}
		dirs := append([]string(nil), in.Positional...)
		keys := make([]string, 0, len(in.Named))
		for k := range in.Named {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dirs = append(dirs, in.Named[k])
		}

		byContext := map[string]*TranslateOutput{}
		main := &TranslateOutput{Context: in.OutputKey}
		byContext[in.OutputKey] = main
		var order []string

		finder := FileAccessorFinder{}
		for _, dir := range dirs {
			err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				acc, ok := finder.Find(p)
				if !ok {
					return nil
				}
				quads, err := acc.Fetch(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
				for _, q := range quads {
					out := main
					if q.Context != "" && q.Context != in.OutputKey {
						out = byContext[q.Context]
						if out == nil {
							out = &TranslateOutput{Context: q.Context}
							byContext[q.Context] = out
							order = append(order, q.Context)
							main.Imports = append(main.Imports, q.Context)
						}
					}
					out.Triples = append(out.Triples, q.Triple)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}

		outs := []TranslateOutput{*main}
		for _, id := range order {
			outs = append(outs, *byContext[id])
		}
		return outs, nil
	})
}
