// Package selbench implements the selbench command: benchmarking, profiling
// and running selectors against XML, HTML, JSON and Go files.
package selbench

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/internal/document"
	"github.com/sandrolain/goselect/pkg/ext"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	HTML    bool   // shorthand for --kind html
	Kind    string // document kind, guessed from the file name when empty
	Ext     bool   // enable the pkg/ext pseudo-classes
	Config  string // YAML run file
}

// NewRootCommand creates the root command for the selbench CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "selbench",
		Short: "Benchmark and run CSS selectors",
		Long: `selbench compiles CSS selectors with goselect and runs them against XML,
HTML, JSON or Go source files. Inputs ending in .gz or .zst are decompressed
on the fly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Kind != "" {
				if _, err := document.ParseKind(opts.Kind); err != nil {
					return err
				}
			}
			if opts.HTML && opts.Kind != "" && opts.Kind != string(document.HTML) {
				return fmt.Errorf("--html conflicts with --kind %s", opts.Kind)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().BoolVar(&opts.HTML, "html", false, "read the input as HTML")
	cmd.PersistentFlags().StringVar(&opts.Kind, "kind", "", "input kind (xml|html|json|go); guessed from the file name by default")
	cmd.PersistentFlags().BoolVar(&opts.Ext, "ext", false, "enable the extra pseudo-classes (:enabled, :lang(), :link, ...)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML run file with the file, selectors and iterations")

	cmd.AddCommand(NewBenchCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))

	return cmd
}

// kind returns the document kind forced by flags, or "" to guess.
func (o *RootOptions) kind() document.Kind {
	if o.HTML {
		return document.HTML
	}
	k, _ := document.ParseKind(o.Kind)
	return k
}

// newLogger writes text logs to w, at debug level with --verbose.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// engine builds a caching engine for doc.
func (o *RootOptions) engine(doc *document.Document, logger *slog.Logger, subs map[string]string) *goselect.Engine {
	opts := append([]goselect.Option{}, doc.Options...)
	opts = append(opts,
		goselect.WithLogger(logger),
		goselect.WithCaching(true),
	)
	if len(subs) > 0 {
		opts = append(opts, goselect.WithSubstitutions(subs))
	}
	if o.Ext {
		opts = append(opts, ext.WithAll())
	}
	return goselect.New(opts...)
}
