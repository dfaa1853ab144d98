// Package parser turns selector text into an ast.SelectorList.
//
// The grammar is the selector grammar of CSS Selectors Level 4 over the
// token definitions of CSS Syntax Level 3: identifiers and strings with
// backslash escapes, namespace prefixes, the five combinators, attribute
// matchers with i/s modifiers, pseudo-elements and functional pseudo-classes.
//
// How a functional pseudo-class argument is read depends on the pseudo-class:
// ":nth-child(2n+1 of .a)" needs An+B syntax, ":is(a, b)" a selector list and
// ":lang(en)" a plain value list. The caller passes an ArgumentKinds lookup
// that answers this for each name; unknown names get a value list.
//
// # Example
//
//	list, err := parser.Parse("ul > li:nth-child(odd)", compiler.DefaultRegistry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(ast.Dump(list))
//
// Errors are *ast.ParseError values carrying the character position where
// parsing stopped.
package parser

import (
	"github.com/sandrolain/goselect/pkg/ast"
)

// ArgumentKinds tells the parser how to read the argument of a functional
// pseudo-class. Names are passed ASCII-lowercased.
type ArgumentKinds interface {
	ArgumentKind(name string) (ast.ArgumentKind, bool)
}

// KindMap is a fixed ArgumentKinds table.
type KindMap map[string]ast.ArgumentKind

// ArgumentKind implements ArgumentKinds.
func (m KindMap) ArgumentKind(name string) (ast.ArgumentKind, bool) {
	k, ok := m[name]
	return k, ok
}

// Options configures the parser.
type Options struct {
	// MaxDepth bounds how deeply selector-list arguments may nest,
	// e.g. ":is(:not(:has(...)))". Zero means the default of 64.
	MaxDepth int
}

// Option configures parser Options.
type Option func(*Options)

// WithMaxDepth sets the maximum nesting depth of selector-list arguments.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

const defaultMaxDepth = 64

// Parse parses source into a selector list. kinds may be nil, in which case
// every functional pseudo-class takes a value list.
func Parse(source string, kinds ArgumentKinds, opts ...Option) (ast.SelectorList, error) {
	return NewParser(source, kinds, opts...).Parse()
}
