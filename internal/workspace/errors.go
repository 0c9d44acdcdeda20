package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAccessorFinder is returned by FetchGraph when no accessor finder
	// is configured.
	ErrNoAccessorFinder = errors.New("no graph accessor finder configured")
	// ErrPowDirExists is returned by Clone when the powdir already exists.
	ErrPowDirExists = errors.New("powdir already exists")
	// ErrNoContext is returned when a graph without context labels is added
	// and no target context is given or set.
	ErrNoContext = errors.New("no target context")
)

// UnreadableGraphError reports a URL no accessor could read.
type UnreadableGraphError struct {
	URL string
	Err error
}

func (e *UnreadableGraphError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not read the graph at %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("could not read the graph at %s", e.URL)
}

func (e *UnreadableGraphError) Unwrap() error {
	return e.Err
}

// UnknownTranslatorError reports a translator name with no registration.
type UnknownTranslatorError struct {
	Name string
}

func (e *UnknownTranslatorError) Error() string {
	return fmt.Sprintf("unknown translator %q", e.Name)
}
