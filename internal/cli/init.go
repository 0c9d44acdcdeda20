package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitResult is the JSON payload of init and clone.
type InitResult struct {
	PowDir string `json:"powdir"`
	URL    string `json:"url,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var updateConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Make a new graph store",
		Long: `Create the powdir with a configuration file, an empty store and a
repository.

An existing configuration file is kept as is unless --update-config is
given, in which case its store path is pointed at the new store. If any
step fails, a powdir created by this command is removed again.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd, updateConfig)
		},
	}

	cmd.Flags().BoolVar(&updateConfig, "update-config", false, "point an existing config file at the new store")
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command, updateConfig bool) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	if err := ws.Init(cmd.Context(), updateConfig); err != nil {
		return fail(f, "init failed", err)
	}

	if f.JSON() {
		return f.Success(InitResult{PowDir: ws.PowDir()})
	}
	return f.Success(fmt.Sprintf("Initialized pow store in %s", ws.PowDir()))
}

// NewCloneCommand creates the clone command.
func NewCloneCommand(rootOpts *RootOptions) *cobra.Command {
	var updateConfig bool

	cmd := &cobra.Command{
		Use:   "clone <url>",
		Short: "Clone a graph store",
		Long: `Clone the repository at <url> into a new powdir and load its graphs
into a fresh store.

The load runs in a single transaction. The powdir must not exist; it is
removed again if cloning or loading fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(rootOpts, cmd, args[0], updateConfig)
		},
	}

	cmd.Flags().BoolVar(&updateConfig, "update-config", false, "point a cloned config file at the new store")
	return cmd
}

func runClone(opts *RootOptions, cmd *cobra.Command, url string, updateConfig bool) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	if err := ws.Clone(cmd.Context(), url, updateConfig); err != nil {
		return fail(f, "clone failed", err)
	}

	if f.JSON() {
		return f.Success(InitResult{PowDir: ws.PowDir(), URL: url})
	}
	return f.Success(fmt.Sprintf("Cloned %s into %s", url, ws.PowDir()))
}
