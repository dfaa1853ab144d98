package selbench

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// ProfileOptions holds flags for the profile command.
type ProfileOptions struct {
	RunOptions
	Output string
}

// NewProfileCommand creates the profile command.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RunOptions: RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Write a CPU profile of selectors running against a document",
		Long: `Run the selectors like bench while recording a CPU profile. Inspect the
result with "go tool pprof".`,
		Example: `  selbench profile -f feed.xml.zst -s "entry:has(> link[rel=alternate])" -n 10000 -o cpu.pprof`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, opts)
		},
	}
	addRunFlags(cmd, &opts.RunOptions, true)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "selbench.pprof", "profile output path")

	return cmd
}

func runProfile(cmd *cobra.Command, opts *ProfileOptions) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("start profile: %w", err)
	}
	results := s.run(opts.Iterations)
	pprof.StopCPUProfile()

	writeResults(cmd.OutOrStdout(), results)
	printer.Fprintf(cmd.OutOrStdout(), "\nprofile written to %s\n", opts.Output)
	return nil
}
