package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/rdf"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s failed\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// evaluate checks one assertion against a result.
func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertContextCount:
		return assertContextCount(r, a)
	case AssertTripleCount:
		return assertTripleCount(r, a)
	case AssertContains:
		return assertContains(r, a)
	case AssertFileCount:
		return assertFileCount(r, a)
	case AssertFileName:
		return assertFileName(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertContextCount(r *Result, a Assertion) error {
	if len(r.State) == a.Count {
		return nil
	}
	ids := make([]string, 0, len(r.State))
	for id := range r.State {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d contexts", a.Count),
		Actual:   fmt.Sprintf("%d contexts %v", len(ids), ids),
	}
}

func assertTripleCount(r *Result, a Assertion) error {
	triples, ok := r.State[a.Context]
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d triples in %s", a.Count, a.Context),
			Actual:   "no such context",
		}
	}
	if len(triples) != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d triples in %s", a.Count, a.Context),
			Actual:   fmt.Sprintf("%d triples", len(triples)),
		}
	}
	return nil
}

func assertContains(r *Result, a Assertion) error {
	want, err := parseTriple(a.Triple)
	if err != nil {
		return err
	}
	triples := r.State[a.Context]
	if slices.ContainsFunc(triples, func(t rdf.Triple) bool { return rdf.Compare(t, want) == 0 }) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s in %s", want, a.Context),
		Actual:   fmt.Sprintf("%d triples, none matching", len(triples)),
	}
}

func assertFileCount(r *Result, a Assertion) error {
	if len(r.Index) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d files", a.Count),
		Actual:   fmt.Sprintf("%d files", len(r.Index)),
	}
}

func assertFileName(r *Result, a Assertion) error {
	i := slices.IndexFunc(r.Index, func(e graphs.IndexEntry) bool { return e.ContextID == a.Context })
	if i < 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s serialized to %s", a.Context, a.File),
			Actual:   "context not in index",
		}
	}
	if got := r.Index[i].FileName; got != a.File {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s serialized to %s", a.Context, a.File),
			Actual:   got,
		}
	}
	return nil
}
