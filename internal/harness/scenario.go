package harness

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pow/internal/rdf"
)

// Scenario is a round-trip test case loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario covers.
	Description string `yaml:"description"`

	// BatchSize is used while reloading. Zero means the loader default.
	BatchSize int `yaml:"batch_size,omitempty"`

	// Contexts lists statements per context. A context with no triples is
	// created empty.
	Contexts []ContextData `yaml:"contexts,omitempty"`

	// NQuads is an N-Quads document added after Contexts.
	NQuads string `yaml:"nquads,omitempty"`

	// Assertions are checked against the reloaded store and the graphs
	// directory.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ContextData is the initial content of one context.
type ContextData struct {
	ID      string   `yaml:"id"`
	Triples []string `yaml:"triples,omitempty"`
}

// Assertion is a single check on a scenario result.
type Assertion struct {
	Type string `yaml:"type"`

	// Context is used by triple_count, contains and file_name.
	Context string `yaml:"context,omitempty"`

	// Triple is an N-Triples statement, used by contains.
	Triple string `yaml:"triple,omitempty"`

	// Count is used by context_count, triple_count and file_count.
	Count int `yaml:"count,omitempty"`

	// File is the expected file name, used by file_name.
	File string `yaml:"file,omitempty"`
}

// Assertion types.
const (
	AssertContextCount = "context_count"
	AssertTripleCount  = "triple_count"
	AssertContains     = "contains"
	AssertFileCount    = "file_count"
	AssertFileName     = "file_name"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name %q must not contain path separators", s.Name)
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.BatchSize < 0 {
		return fmt.Errorf("batch_size must be non-negative")
	}
	if len(s.Contexts) == 0 && strings.TrimSpace(s.NQuads) == "" {
		return fmt.Errorf("contexts or nquads is required")
	}

	seen := make(map[string]bool, len(s.Contexts))
	for i, c := range s.Contexts {
		if c.ID == "" {
			return fmt.Errorf("contexts[%d]: id is required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("contexts[%d]: duplicate context %s", i, c.ID)
		}
		seen[c.ID] = true
		for j, line := range c.Triples {
			if _, err := parseTriple(line); err != nil {
				return fmt.Errorf("contexts[%d].triples[%d]: %w", i, j, err)
			}
		}
	}

	if _, err := parseNQuads(s.NQuads); err != nil {
		return fmt.Errorf("nquads: %w", err)
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContextCount, AssertFileCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertTripleCount:
		if a.Context == "" {
			return fmt.Errorf("assertions[%d]: context is required for triple_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for triple_count", index)
		}
	case AssertContains:
		if a.Context == "" {
			return fmt.Errorf("assertions[%d]: context is required for contains", index)
		}
		if _, err := parseTriple(a.Triple); err != nil {
			return fmt.Errorf("assertions[%d]: triple: %w", index, err)
		}
	case AssertFileName:
		if a.Context == "" || a.File == "" {
			return fmt.Errorf("assertions[%d]: context and file are required for file_name", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// Quads returns every statement of the scenario, contexts first. Empty
// contexts yield no quads; see ContextIDs.
func (s *Scenario) Quads() ([]rdf.Quad, error) {
	var quads []rdf.Quad
	for _, c := range s.Contexts {
		for _, line := range c.Triples {
			t, err := parseTriple(line)
			if err != nil {
				return nil, fmt.Errorf("context %s: %w", c.ID, err)
			}
			quads = append(quads, rdf.Quad{Triple: t, Context: c.ID})
		}
	}
	extra, err := parseNQuads(s.NQuads)
	if err != nil {
		return nil, err
	}
	return append(quads, extra...), nil
}

// ContextIDs returns the contexts declared under contexts, in file order.
func (s *Scenario) ContextIDs() []string {
	ids := make([]string, len(s.Contexts))
	for i, c := range s.Contexts {
		ids[i] = c.ID
	}
	return ids
}

func parseTriple(line string) (rdf.Triple, error) {
	if strings.TrimSpace(line) == "" {
		return rdf.Triple{}, fmt.Errorf("empty statement")
	}
	q, err := rdf.NewDecoder(strings.NewReader(line), rdf.NTriples).Decode()
	if err != nil {
		return rdf.Triple{}, err
	}
	return q.Triple, nil
}

func parseNQuads(doc string) ([]rdf.Quad, error) {
	dec := rdf.NewDecoder(strings.NewReader(doc), rdf.NQuads)
	var quads []rdf.Quad
	for {
		q, err := dec.Decode()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return nil, err
		}
		if q.Context == "" {
			return nil, fmt.Errorf("statement %d has no graph label", len(quads)+1)
		}
		quads = append(quads, q)
	}
}
