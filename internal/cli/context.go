package cli

import (
	"github.com/spf13/cobra"
)

// NewContextCommand creates the context command.
func NewContextCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "context [id]",
		Short: "Read or set the current target context",
		Long: `With no argument, print the current target context. With an argument,
make it the current target context. add-graph puts statements without a
context label into it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(rootOpts, cmd, args)
		},
	}
}

func runContext(opts *RootOptions, cmd *cobra.Command, args []string) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	if len(args) == 1 {
		if err := ws.SetContext(args[0]); err != nil {
			return fail(f, "set context failed", err)
		}
		if f.JSON() {
			return f.Success(map[string]string{"context": args[0]})
		}
		return nil
	}

	id, ok, err := ws.Context()
	if err != nil {
		return fail(f, "read context failed", err)
	}
	if f.JSON() {
		return f.Success(map[string]string{"context": id})
	}
	if !ok {
		return f.Success("No context")
	}
	return f.Success(id)
}

// NewContextsCommand creates the contexts command.
func NewContextsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "contexts",
		Short:         "List the contexts in the store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContexts(rootOpts, cmd)
		},
	}
}

func runContexts(opts *RootOptions, cmd *cobra.Command) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	ids, err := ws.ListContexts(cmd.Context())
	if err != nil {
		return fail(f, "list contexts failed", err)
	}
	if f.JSON() {
		return f.Success(ids)
	}
	for _, id := range ids {
		if err := f.Success(id); err != nil {
			return err
		}
	}
	return nil
}
