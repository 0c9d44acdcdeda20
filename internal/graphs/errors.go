package graphs

import (
	"errors"
	"fmt"
)

var (
	// ErrCollisionExhausted is returned when no free file name could be
	// found for a context within MaxCollisionSuffix attempts.
	ErrCollisionExhausted = errors.New("no free file name for context")

	// ErrWriterClosed is returned by BatchWriter.Add after Close.
	ErrWriterClosed = errors.New("batch writer is closed")
)

// SerializationError reports a failure writing one context or the index.
// No file is left under its final name when this is returned.
type SerializationError struct {
	ContextID string
	Path      string
	Err       error
}

func (e *SerializationError) Error() string {
	if e.ContextID == "" {
		return fmt.Sprintf("serialize %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("serialize context %s to %s: %v", e.ContextID, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// IndexParseError reports a malformed line in the index file.
type IndexParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *IndexParseError) Error() string {
	return fmt.Sprintf("index line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// LoadError reports a failure loading one index entry. The whole load is
// rolled back when this is returned.
type LoadError struct {
	Entry IndexEntry
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s into context %s: %v", e.Entry.FileName, e.Entry.ContextID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsSerializationError reports whether err is or wraps a SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// IsIndexParseError reports whether err is or wraps an IndexParseError.
func IsIndexParseError(err error) bool {
	var ie *IndexParseError
	return errors.As(err, &ie)
}
