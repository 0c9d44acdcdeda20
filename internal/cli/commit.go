package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/pow/internal/repo"
)

// NewCommitCommand creates the commit command.
func NewCommitCommand(rootOpts *RootOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Write the graphs to the repository",
		Long: `Serialize every context to .pow/graphs, rewrite the index, stage the
result together with the config file, and commit.

Example:
  pow commit -m "Add connectome"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(rootOpts, cmd, message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (required)")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func runCommit(opts *RootOptions, cmd *cobra.Command, message string) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	if err := ws.Commit(cmd.Context(), message); err != nil {
		return fail(f, "commit failed", err)
	}

	if f.JSON() {
		return f.Success(map[string]string{"message": message})
	}
	return f.Success("Committed")
}

// DiffEntry is one line of diff output.
type DiffEntry struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how the store differs from the last commit",
		Long: `Serialize the graphs and list the graph files that differ from the
last commit. The serialized files are left staged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, cmd)
		},
	}
}

func runDiff(opts *RootOptions, cmd *cobra.Command) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	changes, err := ws.Diff(cmd.Context())
	if err != nil {
		return fail(f, "diff failed", err)
	}

	if f.JSON() {
		entries := make([]DiffEntry, 0, len(changes))
		for _, c := range changes {
			entries = append(entries, DiffEntry{Path: c.Path, Status: statusName(c.Staging)})
		}
		return f.Success(entries)
	}

	if len(changes) == 0 {
		return f.Success("No changes")
	}
	for _, c := range changes {
		fmt.Fprintf(f.Writer, "%s %s\n", colorFor(c.Staging)(string(c.Staging)), c.Path)
	}
	return nil
}

func statusName(code repo.StatusCode) string {
	switch code {
	case repo.Added:
		return "added"
	case repo.Deleted:
		return "deleted"
	case repo.Modified:
		return "modified"
	case repo.Renamed:
		return "renamed"
	case repo.Copied:
		return "copied"
	case repo.Untracked:
		return "untracked"
	default:
		return "unmodified"
	}
}

func colorFor(code repo.StatusCode) func(a ...interface{}) string {
	switch code {
	case repo.Added:
		return color.New(color.FgGreen).SprintFunc()
	case repo.Deleted:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgYellow).SprintFunc()
	}
}
