package selbench

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time selectors against a document",
		Long: `Compile each selector once, then select every match in the document
the given number of times and report the mean time per run.`,
		Example: `  selbench bench -f page.html.gz -s "a[href]" -s "li:nth-child(odd)" -n 500
  selbench bench --config run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			writeResults(cmd.OutOrStdout(), s.run(opts.Iterations))
			return nil
		},
	}
	addRunFlags(cmd, opts, true)

	return cmd
}

// printer formats counts with digit grouping.
var printer = message.NewPrinter(language.English)

func writeResults(w io.Writer, results []result) {
	for i, r := range results {
		if i > 0 {
			printer.Fprintln(w)
		}
		printer.Fprintf(w, "selector   %s\n", r.Selector)
		printer.Fprintf(w, "matches    %d\n", r.Matches)
		printer.Fprintf(w, "runs       %d\n", r.Iterations)
		printer.Fprintf(w, "total      %s\n", r.Elapsed.Round(time.Microsecond))
		printer.Fprintf(w, "per run    %s\n", r.PerRun())
		printer.Fprintf(w, "runs/sec   %d\n", r.RunsPerSecond())
	}
}
