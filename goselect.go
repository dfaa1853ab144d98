// Package goselect matches CSS selectors against arbitrary trees.
//
// Selectors are parsed into an AST (pkg/ast), compiled into a chain of
// predicates (pkg/query) and evaluated against nodes through an Adapter
// (pkg/adapter). The same engine serves XML, HTML, JSON and Go syntax trees;
// only the adapter changes.
//
// # Quick Start
//
//	doc, _ := etreeadapter.ParseString(`<ul><li>a</li><li class="x">b</li></ul>`)
//
//	// One-off matching
//	items, err := goselect.SelectAll(doc, "ul > li.x")
//
//	// Compile once, match many times
//	sel := goselect.MustCompile("li:nth-child(odd)")
//	for node := range sel.All(doc) {
//	    fmt.Println(node.(*etree.Element).Text())
//	}
//
//	// HTML documents
//	root, _ := htmladapter.ParseString(page)
//	links, err := goselect.SelectAll(root, "A[HREF]",
//	    goselect.WithAdapter(htmladapter.Default),
//	    goselect.WithHTML(),
//	)
//
// # Supported selectors
//
// Type, universal, id, class and attribute selectors (with the =, ~=, |=,
// ^=, $= and *= matchers and the i/s modifiers), namespace prefixes, the
// descendant, child, next-sibling and subsequent-sibling combinators, and the
// pseudo-classes :first-child, :last-child, :only-child, :nth-child(An+B [of
// S]), :nth-last-child, :first-of-type, :last-of-type, :only-of-type,
// :nth-of-type, :nth-last-of-type, :root, :is, :where, :not, :scope, :has,
// :empty, :checked and :disabled. More pseudo-classes can be registered with
// WithPseudoClass; pkg/ext ships optional bundles.
//
// Pseudo-elements and the column combinator (||) are parsed but rejected by
// the compiler.
//
// # Errors
//
// Malformed selectors fail with *ast.ParseError, valid selectors using
// unsupported constructs with *ast.CompileError. Both can be tested with
// errors.Is against ast.ErrParse and ast.ErrCompile. Matching never fails.
//
// # Concurrency
//
// Compiled selectors and engines are safe for concurrent use. Every match
// call builds its own evaluation context, so only the adapter must tolerate
// concurrent reads of the tree.
package goselect

import (
	"fmt"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Version returns the current version of goselect.
func Version() string {
	return "v0.1.0-dev"
}

// Compile parses and compiles a selector for repeated matching.
//
// Example:
//
//	sel, err := goselect.Compile("#p a:not(:first-of-type)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	links := sel.SelectAll(doc)
func Compile(selector string, opts ...Option) (*Selector, error) {
	return compile(selector, newConfig(opts))
}

// MustCompile is like Compile but panics if the selector cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(selector string, opts ...Option) *Selector {
	sel, err := Compile(selector, opts...)
	if err != nil {
		panic(fmt.Sprintf("goselect: Compile(%q): %v", selector, err))
	}
	return sel
}

// Is reports whether node matches selector. :scope refers to the node set
// with WithScope, or else to the document node of node.
func Is(node adapter.Node, selector string, opts ...Option) (bool, error) {
	sel, err := Compile(selector, opts...)
	if err != nil {
		return false, err
	}
	return sel.Match(node), nil
}

// EachSelect calls visit for scope and each of its descendant elements, in
// document order, that match selector. visit returning false stops the walk.
func EachSelect(scope adapter.Node, selector string, visit func(adapter.Node) bool, opts ...Option) error {
	sel, err := Compile(selector, opts...)
	if err != nil {
		return err
	}
	sel.Each(scope, visit)
	return nil
}

// Select returns the first element under scope matching selector, or nil.
func Select(scope adapter.Node, selector string, opts ...Option) (adapter.Node, error) {
	sel, err := Compile(selector, opts...)
	if err != nil {
		return nil, err
	}
	return sel.Select(scope), nil
}

// SelectAll returns every element under scope matching selector, in
// document order.
func SelectAll(scope adapter.Node, selector string, opts ...Option) ([]adapter.Node, error) {
	sel, err := Compile(selector, opts...)
	if err != nil {
		return nil, err
	}
	return sel.SelectAll(scope), nil
}
