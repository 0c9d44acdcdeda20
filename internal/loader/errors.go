package loader

import (
	"errors"
	"fmt"
)

// Reasons a resolved path is rejected. Use errors.Is on a LoadFailure.
var (
	ErrEmptyResult    = errors.New("loader returned an empty result")
	ErrEscapesSandbox = errors.New("result escapes sandbox")
	ErrNonexistent    = errors.New("nonexistent resource")
	ErrNotDirectory   = errors.New("not a directory")
)

// LoadFailure reports that a loader could not deliver a data source.
type LoadFailure struct {
	// Source is the data source identifier.
	Source string
	// Loader is the key of the loader that failed.
	Loader string
	// Reason is one of the Err* sentinels or the loader's own error.
	Reason error
	// Path is the offending path, when there is one.
	Path string
}

func (e *LoadFailure) Error() string {
	msg := fmt.Sprintf("failed to load %s data with loader %s: %v", e.Source, e.Loader, e.Reason)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return msg
}

func (e *LoadFailure) Unwrap() error {
	return e.Reason
}

// IsLoadFailure reports whether err is or wraps a LoadFailure.
func IsLoadFailure(err error) bool {
	var lf *LoadFailure
	return errors.As(err, &lf)
}
