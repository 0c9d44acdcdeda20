package graphs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/pow/internal/rdf"
)

// ContextFileExt is the extension of every serialized context file.
const ContextFileExt = ".nt"

// DefaultMaxCollisionSuffix bounds the numeric suffixes tried per context.
const DefaultMaxCollisionSuffix = 1 << 16

// ContextSource is the read side of a triple store.
// Triples must return the context's triples; order does not matter, the
// serializer sorts them.
type ContextSource interface {
	Contexts(ctx context.Context) ([]string, error)
	Triples(ctx context.Context, contextID string) ([]rdf.Triple, error)
}

// NameFunc derives the base file name (without extension) for a context.
type NameFunc func(contextID string) string

// HashName is the default NameFunc: hex SHA-256 of the identifier.
func HashName(contextID string) string {
	sum := sha256.Sum256([]byte(contextID))
	return hex.EncodeToString(sum[:])
}

// SerializerOptions configures a Serializer. The zero value is usable.
type SerializerOptions struct {
	// Name derives base file names. Defaults to HashName.
	Name NameFunc
	// MaxCollisionSuffix bounds collision retries. Defaults to
	// DefaultMaxCollisionSuffix.
	MaxCollisionSuffix int
	// Logger receives per-context debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Serializer writes every context of a store to its own file.
type Serializer struct {
	src       ContextSource
	name      NameFunc
	maxSuffix int
	logger    *slog.Logger
}

// NewSerializer creates a Serializer reading from src.
func NewSerializer(src ContextSource, opts SerializerOptions) *Serializer {
	s := &Serializer{
		src:       src,
		name:      opts.Name,
		maxSuffix: opts.MaxCollisionSuffix,
		logger:    opts.Logger,
	}
	if s.name == nil {
		s.name = HashName
	}
	if s.maxSuffix <= 0 {
		s.maxSuffix = DefaultMaxCollisionSuffix
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Serialize writes one file per context into dir, then rewrites dir/index.
// dir must exist. It returns the index entries in index order.
//
// Names are claimed within the pass, so serializing into a directory that
// holds an earlier pass overwrites its files in place. Context files left
// over from an earlier pass are removed once the new index is written.
func (s *Serializer) Serialize(ctx context.Context, dir string) ([]IndexEntry, error) {
	ids, err := s.src.Contexts(ctx)
	if err != nil {
		return nil, fmt.Errorf("serialize: list contexts: %w", err)
	}

	claimed := make(map[string]bool, len(ids))
	entries := make([]IndexEntry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.serializeContext(ctx, dir, id, claimed)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := WriteIndexFile(filepath.Join(dir, IndexFileName), entries); err != nil {
		return nil, err
	}
	if err := s.removeStale(dir, claimed); err != nil {
		return nil, err
	}

	SortEntries(entries)
	s.logger.Debug("serialized contexts", "dir", dir, "contexts", len(entries))
	return entries, nil
}

func (s *Serializer) serializeContext(ctx context.Context, dir, id string, claimed map[string]bool) (IndexEntry, error) {
	name, err := s.freeName(id, claimed)
	if err != nil {
		return IndexEntry{}, &SerializationError{ContextID: id, Path: dir, Err: err}
	}
	path := filepath.Join(dir, name)

	triples, err := s.src.Triples(ctx, id)
	if err != nil {
		return IndexEntry{}, &SerializationError{ContextID: id, Path: path, Err: err}
	}
	rdf.SortTriples(triples)

	err = writeFileAtomic(path, func(w io.Writer) error {
		enc := rdf.NewEncoder(w, rdf.NTriples)
		for _, t := range triples {
			if err := enc.EncodeTriple(t); err != nil {
				return err
			}
		}
		return enc.Flush()
	})
	if err != nil {
		return IndexEntry{}, &SerializationError{ContextID: id, Path: path, Err: err}
	}

	s.logger.Debug("serialized context", "context", id, "file", name, "triples", len(triples))
	return IndexEntry{FileName: name, ContextID: id}, nil
}

// freeName returns the first name among base.nt, base-1.nt, ... not yet
// claimed in this pass, and claims it.
func (s *Serializer) freeName(id string, claimed map[string]bool) (string, error) {
	base := s.name(id)
	name := base + ContextFileExt
	for i := 1; claimed[name]; i++ {
		if i > s.maxSuffix {
			return "", ErrCollisionExhausted
		}
		name = base + "-" + strconv.Itoa(i) + ContextFileExt
	}
	claimed[name] = true
	return name, nil
}

// removeStale deletes context files in dir that this pass did not write.
func (s *Serializer) removeStale(dir string, claimed map[string]bool) error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return &SerializationError{Path: dir, Err: err}
	}
	for _, e := range ents {
		name := e.Name()
		if !e.Type().IsRegular() || filepath.Ext(name) != ContextFileExt || strings.HasPrefix(name, ".") || claimed[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &SerializationError{Path: filepath.Join(dir, name), Err: err}
		}
		s.logger.Debug("removed stale context file", "file", name)
	}
	return nil
}
