package repo

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/pkg/errors"

	"github.com/roach88/pow/internal/progress"
)

// DefaultAuthorName and DefaultAuthorEmail sign commits when Git.Author is
// unset.
const (
	DefaultAuthorName  = "pow"
	DefaultAuthorEmail = "pow@localhost"
)

// Git is a Provider backed by a go-git repository on the local filesystem.
type Git struct {
	// Author signs commits. Its When field is ignored.
	Author object.Signature
	// Now supplies commit timestamps. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger

	base string
	wfs  billy.Filesystem
	repo *git.Repository
}

// NewGit returns an unbound provider.
func NewGit(logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Git{
		Author: object.Signature{Name: DefaultAuthorName, Email: DefaultAuthorEmail},
		Now:    time.Now,
		Logger: logger,
	}
}

// Base returns the bound base directory, or "" if none.
func (g *Git) Base() string {
	return g.base
}

func storageFor(base string) (billy.Filesystem, *filesystem.Storage, error) {
	wfs := osfs.New(base)
	dotGit, err := wfs.Chroot(git.GitDirName)
	if err != nil {
		return nil, nil, err
	}
	return wfs, filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), nil
}

func (g *Git) bind(base string, r *git.Repository, wfs billy.Filesystem) {
	g.base = base
	g.repo = r
	g.wfs = wfs
}

// Init creates an empty repository in base, or reopens the one already
// there.
func (g *Git) Init(ctx context.Context, base string) error {
	wfs, st, err := storageFor(base)
	if err != nil {
		return opError("init", err, "preparing storage")
	}
	r, err := git.Init(st, wfs)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		r, err = git.Open(st, wfs)
	}
	if err != nil {
		return opError("init", err, "initializing repository")
	}
	g.bind(base, r, wfs)
	g.Logger.Debug("initialized repository", "base", base)
	return nil
}

// Clone clones url into base, reporting received objects to sink.
func (g *Git) Clone(ctx context.Context, url, base string, sink progress.Sink) error {
	if sink == nil {
		sink = progress.Nop{}
	}
	wfs, st, err := storageFor(base)
	if err != nil {
		return opError("clone", err, "preparing storage")
	}
	r, err := git.CloneContext(ctx, st, wfs, &git.CloneOptions{
		URL:      url,
		Progress: newSidebandWriter(sink),
	})
	if err != nil {
		return opError("clone", err, "cloning "+url)
	}
	g.bind(base, r, wfs)
	g.Logger.Debug("cloned repository", "url", url, "base", base)
	return nil
}

// Open binds the provider to the existing repository in base.
func (g *Git) Open(ctx context.Context, base string) error {
	wfs, st, err := storageFor(base)
	if err != nil {
		return opError("open", err, "preparing storage")
	}
	r, err := git.Open(st, wfs)
	if err != nil {
		return opError("open", err, "opening "+base)
	}
	g.bind(base, r, wfs)
	return nil
}

func (g *Git) worktree(op string) (*git.Worktree, error) {
	if g.repo == nil {
		return nil, &RepositoryError{Op: op, Err: ErrNotOpen}
	}
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, opError(op, err, "getting worktree")
	}
	return wt, nil
}

// Add stages paths. Directories are added recursively.
func (g *Git) Add(ctx context.Context, paths []string) error {
	wt, err := g.worktree("add")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := wt.Add(filepath.ToSlash(p)); err != nil {
			return opError("add", err, "adding "+p)
		}
	}
	return nil
}

// Remove deletes paths from the index and the worktree. A directory is
// refused unless recursive is set. Paths the index does not know are
// skipped.
func (g *Git) Remove(ctx context.Context, paths []string, recursive bool) error {
	wt, err := g.worktree("rm")
	if err != nil {
		return err
	}
	for _, p := range paths {
		p = path.Clean(filepath.ToSlash(p))
		fi, err := g.wfs.Lstat(p)
		if err == nil && fi.IsDir() && !recursive {
			return &RepositoryError{Op: "rm", Err: errors.Errorf("not removing %q recursively without recursive set", p)}
		}
		if _, err := wt.Remove(p); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
			return opError("rm", err, "removing "+p)
		}
	}
	return nil
}

// Reset unstages everything, leaving the worktree alone. A repository
// without commits has nothing to reset to and is left as is.
func (g *Git) Reset(ctx context.Context) error {
	wt, err := g.worktree("reset")
	if err != nil {
		return err
	}
	head, err := g.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil
	}
	if err != nil {
		return opError("reset", err, "resolving HEAD")
	}
	err = wt.Reset(&git.ResetOptions{Commit: head.Hash(), Mode: git.MixedReset})
	return opError("reset", err, "resetting to "+head.Hash().String())
}

// Commit records the staged changes.
func (g *Git) Commit(ctx context.Context, message string) error {
	wt, err := g.worktree("commit")
	if err != nil {
		return err
	}
	author := g.Author
	author.When = g.Now()
	hash, err := wt.Commit(message, &git.CommitOptions{Author: &author})
	if err != nil {
		return opError("commit", err, "committing")
	}
	g.Logger.Debug("committed", "hash", hash.String())
	return nil
}

// IsDirty reports whether tracked files differ from HEAD in the index or
// the worktree. Untracked files do not count.
func (g *Git) IsDirty(ctx context.Context) (bool, error) {
	changes, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range changes {
		if c.Tracked() {
			return true, nil
		}
	}
	return false, nil
}

// Status lists every path that is not unmodified, sorted by path.
func (g *Git) Status(ctx context.Context) ([]Change, error) {
	wt, err := g.worktree("status")
	if err != nil {
		return nil, err
	}
	st, err := wt.Status()
	if err != nil {
		return nil, opError("status", err, "computing status")
	}
	changes := make([]Change, 0, len(st))
	for p, fs := range st {
		c := Change{Path: p, Staging: StatusCode(fs.Staging), Worktree: StatusCode(fs.Worktree)}
		if c.Staging == Unmodified && c.Worktree == Unmodified {
			continue
		}
		changes = append(changes, c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

var _ Provider = (*Git)(nil)
