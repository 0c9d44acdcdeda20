package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/pow/internal/config"
	"github.com/roach88/pow/internal/graphs"
)

// Init makes a new graph store in the powdir.
//
// The configuration file is created if it does not exist. An existing file
// is left alone unless updateExistingConfig is set, in which case its store
// path is pointed at StoreName. If any step fails and Init created the
// powdir, the powdir is removed.
func (w *Workspace) Init(ctx context.Context, updateExistingConfig bool) (err error) {
	powdir := w.PowDir()
	created, err := w.ensurePowDir()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && created {
			w.rollback()
		}
	}()

	if err := w.initConfig(updateExistingConfig); err != nil {
		return err
	}
	if _, err := w.Store(); err != nil {
		return err
	}
	if err := w.opts.Repository.Init(ctx, powdir); err != nil {
		return err
	}
	w.repoOpen = true

	w.opts.Logger.Info("initialized workspace", "powdir", powdir)
	return nil
}

func (w *Workspace) ensurePowDir() (bool, error) {
	powdir := w.PowDir()
	ok, err := exists(powdir)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := os.MkdirAll(powdir, 0o755); err != nil {
		return false, fmt.Errorf("create powdir: %w", err)
	}
	return true, nil
}

func (w *Workspace) initConfig(update bool) error {
	path := w.ConfigPath()
	ok, err := exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return w.writeDefaultConfig()
	}
	if !update {
		return nil
	}

	conf, err := config.Read(path)
	if err != nil {
		return err
	}
	rel, err := w.storeConf()
	if err != nil {
		return err
	}
	conf.SetStoreConf(rel)
	if err := conf.Write(path); err != nil {
		return err
	}
	w.conf = nil
	return nil
}

// rollback closes the store and deletes the powdir.
func (w *Workspace) rollback() {
	powdir := w.PowDir()
	if err := w.Close(); err != nil {
		w.opts.Logger.Warn("closing store during rollback", "error", err)
	}
	w.repoOpen = false
	if err := os.RemoveAll(powdir); err != nil {
		w.opts.Logger.Error("removing powdir during rollback", "powdir", powdir, "error", err)
		return
	}
	w.opts.Logger.Debug("rolled back powdir", "powdir", powdir)
}

// Clone clones the repository at url into a new powdir and loads its
// graphs into the store. The powdir must not exist. On failure it is
// removed.
func (w *Workspace) Clone(ctx context.Context, url string, updateExistingConfig bool) (err error) {
	powdir := w.PowDir()
	ok, err := exists(powdir)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("clone into %s: %w", powdir, ErrPowDirExists)
	}
	if err := os.MkdirAll(powdir, 0o755); err != nil {
		return fmt.Errorf("create powdir: %w", err)
	}
	defer func() {
		if err != nil {
			w.rollback()
		}
	}()

	fmt.Fprintln(w.opts.Status, "Cloning...")
	objects := w.opts.Progress("objects")
	err = w.opts.Repository.Clone(ctx, url, powdir, objects)
	objects.Close()
	if err != nil {
		return err
	}
	w.repoOpen = true

	if err := w.initConfig(updateExistingConfig); err != nil {
		return err
	}
	if _, err := w.Store(); err != nil {
		return err
	}

	fmt.Fprintln(w.opts.Status, "Deserializing...")
	n, err := w.loadGraphs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w.opts.Status, "Done!")

	w.opts.Logger.Info("cloned workspace", "url", url, "powdir", powdir, "triples", n)
	return nil
}

// loadGraphs reloads graphs/ into the store in one transaction.
func (w *Workspace) loadGraphs(ctx context.Context) (int, error) {
	st, err := w.Store()
	if err != nil {
		return 0, err
	}
	conf, err := w.Config()
	if err != nil {
		return 0, err
	}

	ctxs := w.opts.Progress("ctx")
	triples := w.opts.Progress("triples")
	defer triples.Close()
	defer ctxs.Close()

	l := graphs.NewLoader(st, graphs.LoaderOptions{
		BatchSize: conf.BatchSize(),
		Contexts:  ctxs,
		Triples:   triples,
		Logger:    w.opts.Logger,
	})
	dir := w.GraphsDir()
	return l.LoadAll(ctx, filepath.Join(dir, graphs.IndexFileName), dir)
}
