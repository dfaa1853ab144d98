package selbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/ext"
	"github.com/sandrolain/goselect/pkg/parser"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "parse <selector>...",
		Short: "Print the syntax tree of selectors",
		Long: `Parse each selector and print its syntax tree. The selector is also
compiled, so constructs the engine rejects are reported.`,
		Example: `  selbench parse "ul > li:nth-child(2n+1 of .item)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := compiler.DefaultRegistry()
			if rootOpts.Ext {
				registry.Register(ext.All()...)
			}
			var popts []parser.Option
			if maxDepth > 0 {
				popts = append(popts, parser.WithMaxDepth(maxDepth))
			}

			out := cmd.OutOrStdout()
			for i, source := range args {
				list, err := parser.Parse(source, registry, popts...)
				if err != nil {
					return fmt.Errorf("parse %q: %w", source, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, ast.Dump(list))
				if _, err := compiler.Compile(list, registry); err != nil {
					return fmt.Errorf("compile %q: %w", source, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "argument nesting limit (0 for the parser default)")

	return cmd
}
