package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pow/internal/progress"
	"github.com/roach88/pow/internal/workspace"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	BaseDir string
	PowDir  string

	// Configure, when set, adjusts workspace options before each command
	// runs (for testing).
	Configure func(*workspace.Options)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pow CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pow",
		Short: "pow - versioned local graph store",
		Long: `Keep named graphs in a local store and version them with git.

Each context is serialized to its own content-addressed file under
.pow/graphs, listed in an index, and committed to the repository in .pow.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.BaseDir, "basedir", ".", "base directory the powdir is resolved against")
	cmd.PersistentFlags().StringVar(&opts.PowDir, "powdir", workspace.DefaultPowDir, "directory holding pow's files")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCloneCommand(opts))
	cmd.AddCommand(NewCommitCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewContextCommand(opts))
	cmd.AddCommand(NewContextsCommand(opts))
	cmd.AddCommand(NewSerializeCommand(opts))
	cmd.AddCommand(NewAddGraphCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the text logger used by every command: Info by default,
// Debug with --verbose.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultTranslators are the translators available to the translate
// command.
func DefaultTranslators() map[string]workspace.Translator {
	return map[string]workspace.Translator{
		"ntriples": workspace.NTriplesTranslator(),
	}
}

// openWorkspace builds the workspace for a command from the global flags.
// Progress bars and status lines go to stderr.
func openWorkspace(opts *RootOptions, cmd *cobra.Command) *workspace.Workspace {
	stderr := cmd.ErrOrStderr()
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	wo := workspace.Options{
		BaseDir:        baseDir,
		PowDir:         opts.PowDir,
		Logger:         newLogger(opts.Verbose, stderr),
		Progress:       progress.BarFactory(stderr),
		Status:         stderr,
		GraphAccessors: workspace.FileAccessorFinder{BaseDir: baseDir},
		Translators:    DefaultTranslators(),
	}
	if opts.Format == "json" {
		wo.Status = io.Discard
	}
	if opts.Configure != nil {
		opts.Configure(&wo)
	}
	return workspace.New(wo)
}

// formatterFor returns the output formatter for a command.
func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
