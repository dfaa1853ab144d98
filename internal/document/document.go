// Package document loads input files for the command-line tools: it picks
// the adapter from the file name, undoes gzip or zstd compression and
// renders matched nodes for printing.
package document

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/adapter/etreeadapter"
	"github.com/sandrolain/goselect/pkg/adapter/goastadapter"
	"github.com/sandrolain/goselect/pkg/adapter/htmladapter"
	"github.com/sandrolain/goselect/pkg/adapter/jsonadapter"
)

// Kind is the format of a document.
type Kind string

const (
	XML  Kind = "xml"
	HTML Kind = "html"
	JSON Kind = "json"
	Go   Kind = "go"
)

// Kinds lists the supported formats.
var Kinds = []Kind{XML, HTML, JSON, Go}

// ParseKind validates a format name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown document kind %q: must be one of %v", s, Kinds)
}

// KindFromPath guesses the format from the file extension, ignoring a
// compression suffix. Unknown extensions are read as XML.
func KindFromPath(path string) Kind {
	path = strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".zst")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".json":
		return JSON
	case ".go":
		return Go
	}
	return XML
}

// Options returns the engine options that read documents of kind k.
func (k Kind) Options() []goselect.Option {
	switch k {
	case HTML:
		return []goselect.Option{goselect.WithAdapter(htmladapter.Default), goselect.WithHTML()}
	case JSON:
		return []goselect.Option{goselect.WithAdapter(jsonadapter.Default)}
	case Go:
		return []goselect.Option{goselect.WithAdapter(goastadapter.Default)}
	}
	return []goselect.Option{goselect.WithAdapter(etreeadapter.Default)}
}

// Document is a parsed input with the adapter that reads it.
type Document struct {
	Kind    Kind
	Root    adapter.Node
	Adapter adapter.Adapter
	// Options select the adapter and, for HTML, the HTML matching rules.
	Options []goselect.Option
}

// Open opens path, decompressing ".gz" and ".zst" files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zstdCloser{zr}, f}}, nil
	}
	return f, nil
}

// LoadFile opens and parses path. An empty kind is guessed from the name.
func LoadFile(path string, kind Kind) (*Document, error) {
	if kind == "" {
		kind = KindFromPath(path)
	}
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := Load(r, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Load parses r as kind.
func Load(r io.Reader, kind Kind) (*Document, error) {
	switch kind {
	case HTML:
		root, err := htmladapter.Parse(r)
		if err != nil {
			return nil, err
		}
		return &Document{
			Kind:    kind,
			Root:    root,
			Adapter: htmladapter.Default,
			Options: kind.Options(),
		}, nil

	case JSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		root, err := jsonadapter.Parse(data)
		if err != nil {
			return nil, err
		}
		return &Document{
			Kind:    kind,
			Root:    root,
			Adapter: jsonadapter.Default,
			Options: kind.Options(),
		}, nil

	case Go:
		file, err := parser.ParseFile(token.NewFileSet(), "input.go", r, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		return &Document{
			Kind:    kind,
			Root:    goastadapter.NewDocument(file),
			Adapter: goastadapter.Default,
			Options: kind.Options(),
		}, nil

	case XML, "":
		doc, err := etreeadapter.Parse(r)
		if err != nil {
			return nil, err
		}
		return &Document{
			Kind:    XML,
			Root:    etreeadapter.Default.Normalize(doc),
			Adapter: etreeadapter.Default,
			Options: XML.Options(),
		}, nil
	}
	return nil, fmt.Errorf("unknown document kind %q", kind)
}

// Describe renders a matched node on one line: tag#id.class for markup,
// key and value for JSON, the expression for Go.
func (d *Document) Describe(n adapter.Node) string {
	a := d.Adapter
	switch d.Kind {
	case Go:
		if g, ok := n.(*goastadapter.Node); ok {
			return goastadapter.Source(g)
		}
	case JSON:
		var b strings.Builder
		b.WriteString(a.TagName(n))
		for _, attr := range []string{"key", "index", "value"} {
			if v, ok := a.Attribute(n, attr, nil, adapter.CaseSensitive); ok {
				fmt.Fprintf(&b, "[%s=%q]", attr, v)
			}
		}
		return b.String()
	}

	var b strings.Builder
	if ns := a.Namespace(n); ns != "" {
		b.WriteString(ns + "|")
	}
	b.WriteString(a.TagName(n))
	if id, ok := adapter.ID(a, n); ok && id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range adapter.ClassNames(a, n) {
		b.WriteString("." + c)
	}
	return b.String()
}

// stackedCloser closes a decompressor and the file under it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstdCloser adapts zstd.Decoder, whose Close returns nothing.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}
