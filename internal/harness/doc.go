// Package harness runs round-trip scenarios against the graph store.
//
// A scenario describes the contents of a store. The harness fills a fresh
// store with it, serializes every context to a graphs directory, reloads
// that directory into a second store, and checks that nothing changed on
// the way. Assertions and golden files then pin down the serialized form.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: people_and_places
//	description: "Two populated contexts and an empty one"
//	batch_size: 2
//	contexts:
//	  - id: http://example.org/people
//	    triples:
//	      - '<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> "Alice" .'
//	  - id: http://example.org/empty
//	nquads: |
//	  <http://example.org/s> <http://example.org/p> "o" <http://example.org/extra> .
//	assertions:
//	  - type: context_count
//	    count: 3
//	  - type: contains
//	    context: http://example.org/people
//	    triple: '<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> "Alice" .'
//
// Statements may be given per context, as an N-Quads document, or both.
// Every N-Quads statement must carry a graph label.
//
// # Assertion Types
//
//   - context_count: the reloaded store holds exactly count contexts
//   - triple_count: context holds exactly count triples after reload
//   - contains: context holds triple after reload
//   - file_count: the graphs directory holds count context files
//   - file_name: context was serialized to the file named file
//
// # Golden Files
//
// Result.Snapshot renders the index followed by every serialized file.
// RunWithGolden compares it against testdata/golden/<name>.golden.
package harness
