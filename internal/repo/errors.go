package repo

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotOpen is returned by operations issued before Init, Clone or Open.
var ErrNotOpen = errors.New("repository not open")

// RepositoryError is a failed repository operation.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// opError wraps err with context and tags it with the operation name.
func opError(op string, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Op: op, Err: errors.Wrap(err, msg)}
}
