package workspace

import (
	"io"
	"log/slog"

	"github.com/roach88/pow/internal/loader"
	"github.com/roach88/pow/internal/progress"
	"github.com/roach88/pow/internal/repo"
)

// Defaults for Options.
const (
	DefaultPowDir     = ".pow"
	DefaultConfigFile = "pow.conf"
	DefaultStoreName  = "worm.db"
	GraphsDirName     = "graphs"
	ContextFileName   = "context"
	DataDirName       = "data"
)

// Options configures a Workspace. The zero value works in the current
// directory with a git repository and no graph accessors.
type Options struct {
	// BaseDir is the directory the powdir is resolved against.
	BaseDir string
	// PowDir holds pow's files. Relative paths are resolved against BaseDir.
	PowDir string
	// ConfigFile and StoreName are resolved against PowDir when relative.
	ConfigFile string
	StoreName  string

	// Repository defaults to a go-git provider.
	Repository repo.Provider
	// GraphAccessors resolves URLs for FetchGraph and AddGraph. Nil means
	// none are configured.
	GraphAccessors GraphAccessorFinder
	// Translators used by Translate, by name.
	Translators map[string]Translator
	// Loaders materialize translation inputs. Defaults to a registry with
	// a GlobLoader for local N-Triples and N-Quads files.
	Loaders *loader.Registry

	Logger *slog.Logger
	// Progress creates progress sinks for long operations.
	Progress progress.Factory
	// Status receives short human-readable status lines such as
	// "Cloning...". Defaults to io.Discard.
	Status io.Writer
}

func (o *Options) setDefaults() {
	if o.BaseDir == "" {
		o.BaseDir = "."
	}
	if o.PowDir == "" {
		o.PowDir = DefaultPowDir
	}
	if o.ConfigFile == "" {
		o.ConfigFile = DefaultConfigFile
	}
	if o.StoreName == "" {
		o.StoreName = DefaultStoreName
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Repository == nil {
		o.Repository = repo.NewGit(o.Logger)
	}
	if o.Progress == nil {
		o.Progress = progress.NopFactory
	}
	if o.Status == nil {
		o.Status = io.Discard
	}
	if o.Loaders == nil {
		o.Loaders = DefaultLoaders()
	}
}

// DefaultLoaders returns a registry that copies *.nt and *.nq files from
// local directories.
func DefaultLoaders() *loader.Registry {
	r := loader.NewRegistry()
	g, err := loader.NewGlobLoader(FileSourceKind, "**/*.nt", "**/*.nq")
	if err != nil {
		panic(err)
	}
	if err := r.Register(g); err != nil {
		panic(err)
	}
	return r
}
