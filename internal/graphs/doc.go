// Package graphs persists the contexts of a triple store to flat files and
// loads them back.
//
// # On-disk layout
//
//	graphs/<sha256-hex>[-N].nt   one canonical N-Triples file per context
//	graphs/index                 "<file> <context-id>" lines, sorted
//
// File names are the hex SHA-256 of the context identifier. When a name is
// already taken earlier in the same pass, "-1", "-2", ... is appended until
// a free name is found, so two contexts never share a file.
//
// # Components
//
//   - BatchWriter: buffers triples and inserts them in fixed-size batches
//   - Serializer: writes every context and then the index, each file via
//     temp-file-and-rename
//   - Index: parse/format of the index file
//   - Loader: reads the index and reloads every context in one transaction
//
// Serializing an unchanged store twice yields byte-identical files.
package graphs
