package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/roach88/pow/internal/config"
	"github.com/roach88/pow/internal/repo"
	"github.com/roach88/pow/internal/store"
)

// Workspace runs pow operations against one base directory.
// It is not safe for concurrent use.
type Workspace struct {
	opts Options

	store    *store.Store
	conf     *config.Config
	repoOpen bool
}

// New returns a workspace. Nothing is touched on disk until an operation
// runs.
func New(opts Options) *Workspace {
	opts.setDefaults()
	return &Workspace{opts: opts}
}

// BaseDir returns the base directory.
func (w *Workspace) BaseDir() string {
	return w.opts.BaseDir
}

// PowDir returns the powdir path.
func (w *Workspace) PowDir() string {
	return resolve(w.opts.BaseDir, w.opts.PowDir)
}

// ConfigPath returns the configuration file path.
func (w *Workspace) ConfigPath() string {
	return resolve(w.PowDir(), w.opts.ConfigFile)
}

// StoreName returns the path of the store created by Init.
func (w *Workspace) StoreName() string {
	return resolve(w.PowDir(), w.opts.StoreName)
}

// GraphsDir returns the directory Commit serializes into.
func (w *Workspace) GraphsDir() string {
	return filepath.Join(w.PowDir(), GraphsDirName)
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Close releases the store.
func (w *Workspace) Close() error {
	if w.store == nil {
		return nil
	}
	err := w.store.Close()
	w.store = nil
	w.conf = nil
	return err
}

// Config reads the configuration file, caching the result.
func (w *Workspace) Config() (*config.Config, error) {
	if w.conf != nil {
		return w.conf, nil
	}
	conf, err := config.Read(w.ConfigPath())
	if err != nil {
		return nil, err
	}
	w.conf = conf
	return conf, nil
}

// Store opens the store named by the configuration, once.
func (w *Workspace) Store() (*store.Store, error) {
	if w.store != nil {
		return w.store, nil
	}
	conf, err := w.Config()
	if err != nil {
		return nil, err
	}
	path := conf.StorePath(w.opts.BaseDir)
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	w.opts.Logger.Debug("opened store", "path", path)
	w.store = st
	return st, nil
}

// storeConf is the store path recorded in the configuration: StoreName
// relative to the base directory.
func (w *Workspace) storeConf() (string, error) {
	storePath, err := filepath.Abs(w.StoreName())
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(w.opts.BaseDir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(base, storePath)
}

func (w *Workspace) writeDefaultConfig() error {
	rel, err := w.storeConf()
	if err != nil {
		return err
	}
	return config.Default(rel).Write(w.ConfigPath())
}

// repository returns the provider bound to the powdir.
func (w *Workspace) repository(ctx context.Context) (repo.Provider, error) {
	r := w.opts.Repository
	if !w.repoOpen {
		if err := r.Open(ctx, w.PowDir()); err != nil {
			return nil, err
		}
		w.repoOpen = true
	}
	return r, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
