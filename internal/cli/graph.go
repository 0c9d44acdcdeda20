package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddGraphCommand creates the add-graph command.
func NewAddGraphCommand(rootOpts *RootOptions) *cobra.Command {
	var contextID string

	cmd := &cobra.Command{
		Use:   "add-graph <url>",
		Short: "Fetch a graph and add it to the store",
		Long: `Fetch the graph at <url> and add its statements to the store.

Local .nt and .nq files can be given as paths or file:// URLs. With
--context only statements in that context, or with no context label,
are added, all into that context. Otherwise unlabelled statements go to
the current target context (see "pow context").`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddGraph(rootOpts, cmd, args[0], contextID)
		},
	}

	cmd.Flags().StringVar(&contextID, "context", "", "only add statements for this context")
	return cmd
}

func runAddGraph(opts *RootOptions, cmd *cobra.Command, url, contextID string) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	n, err := ws.AddGraph(cmd.Context(), url, contextID)
	if err != nil {
		return fail(f, "add-graph failed", err)
	}
	if f.JSON() {
		return f.Success(map[string]any{"url": url, "triples": n})
	}
	return f.Success(fmt.Sprintf("Added %d statements from %s", n, url))
}
