// Package loader materializes the files behind a data source into a
// sandbox directory.
//
// A Loader is given a data source and a directory it owns, puts files there
// however it likes, and returns the directory holding them, either absolute
// or relative to its sandbox. DirLoader wraps a Loader and checks what it
// returned:
//
//  1. the result is not empty
//  2. relative results are joined to the sandbox
//  3. symlinks and "."/".." segments are resolved
//  4. the resolved path is the sandbox or lies under it
//  5. the path exists
//  6. the path is a directory
//
// Any violation is a LoadFailure; nothing is corrected silently. The
// containment check gives loader implementations an unambiguous contract.
// It is not a defense against a hostile loader, which can touch any file it
// likes directly.
package loader
