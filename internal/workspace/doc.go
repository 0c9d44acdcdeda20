// Package workspace implements the pow commands on top of the store, the
// graph files and the repository.
//
// A workspace is a base directory holding a powdir (".pow" by default).
// The powdir contains the configuration file, the SQLite store and the
// repository whose tracked content is the graphs/ directory written by
// Commit. Init and Clone remove a powdir they created if any step fails.
package workspace
