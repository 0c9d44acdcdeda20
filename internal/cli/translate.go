package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pow/internal/workspace"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outputKey string
		named     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "translate <translator> <imports-context> [input-dir...]",
		Short: "Run a translator over data source directories",
		Long: `Copy each input directory into the powdir's data area, run the named
translator over the copies, and save the contexts it produces. Imports
between the produced contexts are recorded in <imports-context>.

Example:
  pow translate ntriples http://example.org/imports ./data --output-key http://example.org/out
  pow translate ntriples http://example.org/imports --named cells=./cells`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(rootOpts, cmd, workspace.TranslateRequest{
				Translator:     args[0],
				ImportsContext: args[1],
				OutputKey:      outputKey,
				Positional:     args[2:],
				Named:          named,
			})
		},
	}

	cmd.Flags().StringVar(&outputKey, "output-key", "", "identifier for the translation output")
	cmd.Flags().StringToStringVar(&named, "named", nil, "named input directories (name=dir)")
	return cmd
}

func runTranslate(opts *RootOptions, cmd *cobra.Command, req workspace.TranslateRequest) error {
	f := formatterFor(opts, cmd)
	ws := openWorkspace(opts, cmd)
	defer ws.Close()

	res, err := ws.Translate(cmd.Context(), req)
	if err != nil {
		var names []string
		for name := range DefaultTranslators() {
			names = append(names, name)
		}
		sort.Strings(names)
		f.VerboseLog("Available translators: %s", strings.Join(names, ", "))
		return fail(f, "translate failed", err)
	}

	if f.JSON() {
		return f.Success(res)
	}
	return f.Success(fmt.Sprintf("Translated %d statements into %s", res.Triples, strings.Join(res.Contexts, ", ")))
}
