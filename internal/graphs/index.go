package graphs

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// IndexFileName is the name of the index inside the graphs directory.
const IndexFileName = "index"

// IndexEntry maps a serialized file to the context it holds.
type IndexEntry struct {
	FileName  string
	ContextID string
}

func compareEntries(a, b IndexEntry) int {
	if c := cmp.Compare(a.FileName, b.FileName); c != 0 {
		return c
	}
	return cmp.Compare(a.ContextID, b.ContextID)
}

// SortEntries sorts by file name, then context identifier.
func SortEntries(entries []IndexEntry) {
	slices.SortFunc(entries, compareEntries)
}

// FormatIndex writes entries sorted, one "<file> <id>" line each.
// The input slice is not modified.
func FormatIndex(w io.Writer, entries []IndexEntry) error {
	sorted := slices.Clone(entries)
	SortEntries(sorted)

	bw := bufio.NewWriter(w)
	for _, e := range sorted {
		if _, err := fmt.Fprintf(bw, "%s %s\n", e.FileName, e.ContextID); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseIndex reads index lines. Each line is split on its first space; a
// line without a space, with an empty field, or naming a file outside the
// graphs directory is an IndexParseError.
func ParseIndex(r io.Reader) ([]IndexEntry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var entries []IndexEntry
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		name, id, ok := strings.Cut(text, " ")
		switch {
		case !ok:
			return nil, &IndexParseError{Line: line, Text: text, Msg: "missing separator"}
		case name == "" || id == "":
			return nil, &IndexParseError{Line: line, Text: text, Msg: "empty field"}
		case name == "." || name == ".." || strings.ContainsAny(name, `/\`):
			return nil, &IndexParseError{Line: line, Text: text, Msg: "file name must be a plain name"}
		}
		entries = append(entries, IndexEntry{FileName: name, ContextID: id})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return entries, nil
}

// ReadIndexFile parses the index at path. A missing file is reported with
// an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadIndexFile(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseIndex(f)
}

// WriteIndexFile replaces the index at path in full.
func WriteIndexFile(path string, entries []IndexEntry) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return FormatIndex(w, entries)
	})
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}
