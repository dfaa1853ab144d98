package goselect

import (
	"iter"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/parser"
	"github.com/sandrolain/goselect/pkg/query"
)

// Selector is a compiled selector bound to an adapter and matching options.
// It is immutable and safe for concurrent use.
type Selector struct {
	source        string
	list          ast.SelectorList
	query         query.Query
	adapter       adapter.Adapter
	options       query.Options
	substitutions map[string]string
	scope         adapter.Node
}

func compile(source string, cfg *Config) (*Selector, error) {
	var popts []parser.Option
	if cfg.MaxDepth > 0 {
		popts = append(popts, parser.WithMaxDepth(cfg.MaxDepth))
	}

	registry := cfg.registry()
	list, err := parser.Parse(source, registry, popts...)
	if err != nil {
		return nil, err
	}
	q, err := compiler.Compile(list, registry)
	if err != nil {
		return nil, err
	}

	return &Selector{
		source:        source,
		list:          list,
		query:         q,
		adapter:       cfg.Adapter,
		options:       cfg.matchOptions(),
		substitutions: cfg.Substitutions,
		scope:         cfg.Scope,
	}, nil
}

// String returns the selector source.
func (s *Selector) String() string {
	return s.source
}

// AST returns the parsed selector list.
func (s *Selector) AST() ast.SelectorList {
	return s.list
}

// Query returns the compiled query.
func (s *Selector) Query() query.Query {
	return s.query
}

func (s *Selector) newContext(scope adapter.Node) *query.Context {
	return query.NewContext(s.adapter, scope, s.substitutions, &s.options)
}

// Match reports whether node matches. :scope refers to the scope the
// selector was compiled with, or else to the document node of node.
func (s *Selector) Match(node adapter.Node) bool {
	node = adapter.Normalize(s.adapter, node)
	scope := s.scope
	if scope == nil {
		scope = s.adapter.DocumentNode(node)
	} else {
		scope = adapter.Normalize(s.adapter, scope)
	}
	return s.MatchIn(node, scope)
}

// MatchIn reports whether node matches with :scope set to scope.
func (s *Selector) MatchIn(node, scope adapter.Node) bool {
	return s.query.Match(node, s.newContext(scope))
}

// Each calls visit for scope and each descendant element of scope, in
// document order, that matches. scope itself is only tested when it is an
// element. visit returning false stops the walk.
func (s *Selector) Each(scope adapter.Node, visit func(adapter.Node) bool) {
	a := s.adapter
	scope = adapter.Normalize(a, scope)
	ctx := s.newContext(scope)

	if a.IsElement(scope) && s.query.Match(scope, ctx) && !visit(scope) {
		return
	}
	adapter.EachRecursiveElement(a, scope, func(node adapter.Node) bool {
		if s.query.Match(node, ctx) {
			return visit(node)
		}
		return true
	})
}

// All returns an iterator over the matches under scope.
func (s *Selector) All(scope adapter.Node) iter.Seq[adapter.Node] {
	return func(yield func(adapter.Node) bool) {
		s.Each(scope, yield)
	}
}

// Select returns the first match under scope, or nil.
func (s *Selector) Select(scope adapter.Node) adapter.Node {
	var found adapter.Node
	s.Each(scope, func(node adapter.Node) bool {
		found = node
		return false
	})
	return found
}

// SelectAll returns every match under scope in document order.
func (s *Selector) SelectAll(scope adapter.Node) []adapter.Node {
	var nodes []adapter.Node
	s.Each(scope, func(node adapter.Node) bool {
		nodes = append(nodes, node)
		return true
	})
	return nodes
}
