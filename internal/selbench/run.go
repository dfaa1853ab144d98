package selbench

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/internal/document"
)

// DefaultIterations is the number of runs per selector when neither the
// flags nor the run file set one.
const DefaultIterations = 1000

// ErrNoSelector is returned when no selector was given.
var ErrNoSelector = errors.New("no selector given: use -s or a run file")

// RunFile is the YAML run file read with --config.
//
//	file: testdata/page.html.gz
//	kind: html
//	iterations: 500
//	selectors:
//	  - "a[href]"
//	  - "li:nth-child(2n+1 of .item)"
//	substitutions:
//	  id: main
type RunFile struct {
	File          string            `yaml:"file"`
	Kind          string            `yaml:"kind"`
	Iterations    int               `yaml:"iterations"`
	Selectors     []string          `yaml:"selectors"`
	Substitutions map[string]string `yaml:"substitutions"`
}

// LoadRunFile decodes a run file.
func LoadRunFile(r io.Reader) (*RunFile, error) {
	var rf RunFile
	if err := yaml.NewDecoder(r).Decode(&rf); err != nil {
		return nil, fmt.Errorf("failed to decode run file: %w", err)
	}
	return &rf, nil
}

// RunOptions holds the per-command input flags.
type RunOptions struct {
	*RootOptions
	File          string
	Selectors     []string
	Iterations    int
	Substitutions map[string]string
}

func addRunFlags(cmd *cobra.Command, opts *RunOptions, iterations bool) {
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "input file (.gz and .zst are decompressed)")
	cmd.Flags().StringArrayVarP(&opts.Selectors, "selector", "s", nil, "selector to run (repeatable)")
	cmd.Flags().StringToStringVar(&opts.Substitutions, "sub", nil, "value for a $name substitution (name=value, repeatable)")
	if iterations {
		cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", DefaultIterations, "runs per selector")
	}
}

// resolve merges the run file under the flags: a flag set on the command
// line always wins.
func (o *RunOptions) resolve(cmd *cobra.Command) error {
	if o.Config != "" {
		f, err := os.Open(o.Config)
		if err != nil {
			return fmt.Errorf("open run file: %w", err)
		}
		rf, err := LoadRunFile(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", o.Config, err)
		}

		flags := cmd.Flags()
		if !flags.Changed("file") && rf.File != "" {
			o.File = rf.File
		}
		if !flags.Changed("selector") && len(rf.Selectors) > 0 {
			o.Selectors = rf.Selectors
		}
		if flags.Lookup("iterations") != nil && !flags.Changed("iterations") && rf.Iterations > 0 {
			o.Iterations = rf.Iterations
		}
		if !flags.Changed("kind") && !flags.Changed("html") && rf.Kind != "" {
			if _, err := document.ParseKind(rf.Kind); err != nil {
				return fmt.Errorf("%s: %w", o.Config, err)
			}
			o.Kind = rf.Kind
		}
		if len(rf.Substitutions) > 0 {
			merged := make(map[string]string, len(rf.Substitutions)+len(o.Substitutions))
			for k, v := range rf.Substitutions {
				merged[k] = v
			}
			for k, v := range o.Substitutions {
				merged[k] = v
			}
			o.Substitutions = merged
		}
	}

	if o.File == "" {
		return errors.New("no input file given: use -f or a run file")
	}
	if len(o.Selectors) == 0 {
		return ErrNoSelector
	}
	if o.Iterations <= 0 && cmd.Flags().Lookup("iterations") != nil {
		return fmt.Errorf("iterations must be positive, got %d", o.Iterations)
	}
	return nil
}

// session is a loaded document with its engine and compiled selectors.
type session struct {
	doc       *document.Document
	engine    *goselect.Engine
	selectors []*goselect.Selector
}

func (o *RunOptions) open(cmd *cobra.Command) (*session, error) {
	if err := o.resolve(cmd); err != nil {
		return nil, err
	}
	logger := o.newLogger(cmd.ErrOrStderr())

	start := time.Now()
	doc, err := document.LoadFile(o.File, o.kind())
	if err != nil {
		return nil, err
	}
	logger.Debug("document loaded", "file", o.File, "kind", doc.Kind, "elapsed", time.Since(start))

	s := &session{doc: doc, engine: o.engine(doc, logger, o.Substitutions)}
	for _, source := range o.Selectors {
		sel, err := s.engine.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", source, err)
		}
		s.selectors = append(s.selectors, sel)
	}
	return s, nil
}

// result is the outcome of running one selector repeatedly.
type result struct {
	Selector   string
	Matches    int
	Iterations int
	Elapsed    time.Duration
}

// PerRun returns the mean time of one run.
func (r result) PerRun() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// RunsPerSecond returns the throughput.
func (r result) RunsPerSecond() int64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return int64(float64(r.Iterations) / r.Elapsed.Seconds())
}

// run matches every selector iterations times against the whole document.
func (s *session) run(iterations int) []result {
	results := make([]result, 0, len(s.selectors))
	for _, sel := range s.selectors {
		r := result{Selector: sel.String(), Iterations: iterations}
		start := time.Now()
		for i := 0; i < iterations; i++ {
			r.Matches = len(sel.SelectAll(s.doc.Root))
		}
		r.Elapsed = time.Since(start)
		results = append(results, r)
	}
	return results
}
