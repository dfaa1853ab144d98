package selbench_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goselect/internal/selbench"
)

const listXML = `<list>
  <item id="a"/>
  <item id="b" class="x"/>
  <item id="c" class="x"/>
</list>`

const formHTML = `<form><input id="name" required><input id="opt"></form>`

func execute(args ...string) (stdout, stderr string, err error) {
	cmd := selbench.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := selbench.NewRootCommand()
	assert.Equal(t, "selbench", cmd.Use)

	for _, name := range []string{"bench", "profile", "select", "parse"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("html"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestBenchFlags(t *testing.T) {
	cmd := selbench.NewRootCommand()
	bench, _, err := cmd.Find([]string{"bench"})
	require.NoError(t, err)

	for flag, short := range map[string]string{"file": "f", "selector": "s", "iterations": "n"} {
		f := bench.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, short, f.Shorthand)
	}
	assert.Equal(t, "1000", bench.Flags().Lookup("iterations").DefValue)
}

func TestSelect(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)

	out, _, err := execute("select", "-f", path, "item.x")
	require.NoError(t, err)
	assert.Equal(t, "item#b.x\nitem#c.x\n", out)

	out, _, err = execute("select", "-f", path, "--limit", "1", "-s", "item", "item:last-child")
	require.NoError(t, err)
	assert.Equal(t, "item#a\nitem#c.x\n", out)

	out, _, err = execute("select", "-f", path, "--count", "item", ":root")
	require.NoError(t, err)
	assert.Equal(t, "3\titem\n1\t:root\n", out)
}

func TestSelectKinds(t *testing.T) {
	html := writeFile(t, "form.txt", formHTML)

	out, _, err := execute("select", "--html", "-f", html, "INPUT[REQUIRED]")
	require.NoError(t, err)
	assert.Equal(t, "input#name\n", out)

	out, _, err = execute("select", "--kind", "html", "--ext", "-f", html, "input:optional")
	require.NoError(t, err)
	assert.Equal(t, "input#opt\n", out)

	_, _, err = execute("select", "--html", "-f", html, "input:optional")
	assert.ErrorContains(t, err, "undefined pseudo class", "extensions are opt-in")

	gofile := writeFile(t, "main.go", "package main\n\nfunc main() { println(1) }\n")
	out, _, err = execute("select", "-f", gofile, "CallExpr")
	require.NoError(t, err)
	assert.Equal(t, "CallExpr println(1)\n", out)
}

func TestSelectSubstitutions(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)
	out, _, err := execute("select", "-f", path, "--sub", "want=c", "[id=$want]")
	require.NoError(t, err)
	assert.Equal(t, "item#c.x\n", out)
}

func TestBench(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)

	out, _, err := execute("bench", "-f", path, "-s", "item.x", "-s", "item", "-n", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "selector   item.x\nmatches    2\nruns       1,500\n")
	assert.Contains(t, out, "selector   item\nmatches    3\n")
	assert.Contains(t, out, "per run    ")
	assert.Contains(t, out, "runs/sec   ")
}

func TestBenchRunFile(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)
	config := writeFile(t, "run.yaml", `file: `+path+`
iterations: 7
selectors:
  - "item:nth-child(odd)"
substitutions:
  id: b
`)

	out, _, err := execute("bench", "--config", config)
	require.NoError(t, err)
	assert.Contains(t, out, "selector   item:nth-child(odd)\nmatches    2\nruns       7\n")

	out, _, err = execute("bench", "--config", config, "-n", "3", "-s", "[id=$id]")
	require.NoError(t, err)
	assert.Contains(t, out, "selector   [id=$id]\nmatches    1\nruns       3\n", "flags override the run file")
}

func TestProfile(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)
	profile := filepath.Join(t.TempDir(), "cpu.pprof")

	out, _, err := execute("profile", "-f", path, "-s", "item", "-n", "10", "-o", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "profile written to "+profile)

	info, err := os.Stat(profile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestParse(t *testing.T) {
	out, _, err := execute("parse", "a > b.c")
	require.NoError(t, err)
	want := strings.Join([]string{
		"SelectorList",
		"  ComplexSelector child",
		"    CompoundSelector",
		`      TagNameType "a"`,
		"    CompoundSelector",
		`      TagNameType "b"`,
		`      ClassName "c"`,
		"",
	}, "\n")
	assert.Equal(t, want, out)

	_, _, err = execute("parse", "a[")
	assert.ErrorContains(t, err, `parse "a["`)

	_, _, err = execute("parse", "a::before")
	assert.ErrorContains(t, err, `compile "a::before"`)

	_, _, err = execute("parse", "--max-depth", "1", ":is(:is(a))")
	assert.Error(t, err)
}

func TestVerboseLogging(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)

	_, stderr, err := execute("select", "-v", "-f", path, "item")
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="document loaded"`)
	assert.Contains(t, stderr, `msg="selector compiled" selector=item`)

	_, stderr, err = execute("select", "-f", path, "item")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "selector compiled")
}

func TestErrors(t *testing.T) {
	path := writeFile(t, "list.xml", listXML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", []string{"select", "item"}, "no input file"},
		{"no selector", []string{"bench", "-f", path}, selbench.ErrNoSelector.Error()},
		{"bad kind", []string{"select", "--kind", "yaml", "-f", path, "item"}, "unknown document kind"},
		{"conflicting kind", []string{"select", "--html", "--kind", "json", "-f", path, "item"}, "conflicts"},
		{"bad iterations", []string{"bench", "-f", path, "-s", "item", "-n", "0"}, "iterations must be positive"},
		{"bad selector", []string{"select", "-f", path, "item["}, `compile "item["`},
		{"missing file", []string{"select", "-f", path + ".missing", "item"}, "no such file"},
		{"missing run file", []string{"bench", "--config", path + ".yaml"}, "open run file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadRunFile(t *testing.T) {
	rf, err := selbench.LoadRunFile(strings.NewReader(`
file: page.html.gz
kind: html
iterations: 50
selectors: ["a[href]", "li"]
substitutions: {x: "1"}
`))
	require.NoError(t, err)
	assert.Equal(t, &selbench.RunFile{
		File:          "page.html.gz",
		Kind:          "html",
		Iterations:    50,
		Selectors:     []string{"a[href]", "li"},
		Substitutions: map[string]string{"x": "1"},
	}, rf)

	_, err = selbench.LoadRunFile(strings.NewReader("selectors: [unterminated"))
	assert.ErrorContains(t, err, "failed to decode run file")
}
