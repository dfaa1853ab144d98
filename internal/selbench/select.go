package selbench

import (
	"github.com/spf13/cobra"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	RunOptions
	Limit int
	Count bool
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RunOptions: RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "select [selector...]",
		Short: "Print the elements matching selectors",
		Long: `Print one line per matching element, in document order. Selectors come
from the arguments, -s flags or the run file.`,
		Example: `  selbench select -f page.html "nav > a[href]"
  selbench select -f main.go --count "CallExpr[fun^='fmt.']"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Selectors = append(opts.Selectors, args...)
			return runSelect(cmd, opts)
		},
	}
	addRunFlags(cmd, &opts.RunOptions, false)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many matches per selector (0 for all)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the number of matches")

	return cmd
}

func runSelect(cmd *cobra.Command, opts *SelectOptions) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, sel := range s.selectors {
		n := 0
		sel.Each(s.doc.Root, func(node adapter.Node) bool {
			n++
			if !opts.Count {
				printer.Fprintln(out, s.doc.Describe(node))
			}
			return opts.Limit <= 0 || n < opts.Limit
		})
		if opts.Count {
			printer.Fprintf(out, "%d\t%s\n", n, sel.String())
		}
	}
	return nil
}
