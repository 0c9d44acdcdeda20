package repo

import (
	"context"
	"fmt"

	"github.com/roach88/pow/internal/progress"
)

// Provider is the repository behind a powdir.
//
// Init, Clone and Open bind the provider to a base directory; the remaining
// methods operate on that repository and fail with ErrNotOpen before one of
// them has succeeded. Paths are relative to the base directory.
type Provider interface {
	Init(ctx context.Context, base string) error
	Clone(ctx context.Context, url, base string, sink progress.Sink) error
	Open(ctx context.Context, base string) error

	Add(ctx context.Context, paths []string) error
	Remove(ctx context.Context, paths []string, recursive bool) error
	Reset(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	IsDirty(ctx context.Context) (bool, error)
	Status(ctx context.Context) ([]Change, error)
}

// StatusCode is a one-letter file state, as printed by git status --short.
type StatusCode byte

const (
	Unmodified StatusCode = ' '
	Untracked  StatusCode = '?'
	Modified   StatusCode = 'M'
	Added      StatusCode = 'A'
	Deleted    StatusCode = 'D'
	Renamed    StatusCode = 'R'
	Copied     StatusCode = 'C'
)

// Change is the state of one path in the index and the worktree.
type Change struct {
	Path     string
	Staging  StatusCode
	Worktree StatusCode
}

func (c Change) String() string {
	return fmt.Sprintf("%c%c %s", c.Staging, c.Worktree, c.Path)
}

// Tracked reports whether the change involves a path git already knows.
func (c Change) Tracked() bool {
	return c.Staging != Untracked && c.Worktree != Untracked
}
