package harness

import (
	"bytes"
	"fmt"

	"github.com/roach88/pow/internal/graphs"
	"github.com/roach88/pow/internal/rdf"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when the round trip preserved the store and every
	// assertion held.
	Pass bool `json:"pass"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Index holds the serialized index entries, sorted.
	Index []graphs.IndexEntry `json:"-"`

	// Files maps each serialized file name to its contents.
	Files map[string]string `json:"-"`

	// Loaded is the number of triples read back while reloading.
	Loaded int `json:"loaded"`

	// State is the reloaded store: context id to sorted triples.
	State map[string][]rdf.Triple `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Files:  make(map[string]string),
		State:  make(map[string][]rdf.Triple),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot renders the graphs directory: the index, then every file in
// index order, each under a "== <name>" header.
func (r *Result) Snapshot() []byte {
	var buf bytes.Buffer
	buf.WriteString("== " + graphs.IndexFileName + "\n")
	for _, e := range r.Index {
		fmt.Fprintf(&buf, "%s %s\n", e.FileName, e.ContextID)
	}
	for _, e := range r.Index {
		buf.WriteString("== " + e.FileName + "\n")
		buf.WriteString(r.Files[e.FileName])
	}
	return buf.Bytes()
}
