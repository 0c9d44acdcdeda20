// Package store provides the SQLite-backed triple store for a working
// directory.
//
// The store holds a set of contexts (named graphs), each a set of triples:
//   - contexts: one row per context identifier; contexts may be empty
//   - triples: UNIQUE(context, subject, predicate, object) gives set semantics
//
// # Ordering
//
// Every read that returns triples uses
// ORDER BY subject, predicate, object COLLATE BINARY, matching rdf.Compare,
// so serialization is byte-for-byte reproducible.
//
// # Transactions
//
// Update runs a function inside one SQLite transaction. The bulk loader uses
// it so a failed load leaves no context partially populated.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
