package cli

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pow/internal/rdf"
)

// NewSerializeCommand creates the serialize command.
func NewSerializeCommand(rootOpts *RootOptions) *cobra.Command {
	var syntax, output string

	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Write the whole store to a file or stdout",
		Long: `Dump every statement in the store.

N-Quads (the default) keeps context labels; N-Triples merges all contexts
into one sorted set of distinct triples.

Example:
  pow serialize --syntax nt -o all.nt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSerialize(rootOpts, cmd, syntax, output)
		},
	}

	cmd.Flags().StringVar(&syntax, "syntax", "nquads", "serialization syntax (nquads|nt)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default stdout)")
	return cmd
}

func runSerialize(opts *RootOptions, cmd *cobra.Command, syntax, output string) (err error) {
	f := formatterFor(opts, cmd)
	format, err := rdf.ParseFormat(syntax)
	if err != nil {
		return report(f, ErrCodeUsage, err.Error(), WrapExitError(ExitCommandError, ErrCodeUsage+": bad syntax", err))
	}

	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	w := bufio.NewWriter(cmd.OutOrStdout())
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fail(f, "serialize failed", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fail(f, "serialize failed", cerr)
			}
		}()
		w = bufio.NewWriter(file)
	}

	if err := ws.Serialize(cmd.Context(), w, format); err != nil {
		return fail(f, "serialize failed", err)
	}
	if err := w.Flush(); err != nil {
		return fail(f, "serialize failed", err)
	}

	if output != "" {
		if f.JSON() {
			return f.Success(map[string]string{"output": output, "syntax": format.String()})
		}
		f.VerboseLog("Wrote %s to %s", format, output)
	}
	return nil
}
