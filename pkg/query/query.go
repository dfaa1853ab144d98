// Package query holds the compiled form of a selector: a chain of predicates
// in continuation-passing style.
//
// Every Query tests one node and, on success, hands over to its continuation.
// Combinator queries move the current node first (to the parent, an ancestor
// or a preceding sibling) and run the continuation there. A compiled chain is
// built once and is read-only afterwards, so it can be shared between
// goroutines. All per-call state lives in a Context.
package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// Query is a compiled predicate.
//
// Match returns false without calling the continuation when node fails this
// query's own test. For combinator queries, true means the continuation has
// already matched against the relocated node.
type Query interface {
	Match(node adapter.Node, ctx *Context) bool
}

// TrueQuery terminates every chain.
type TrueQuery struct{}

// True is the shared TrueQuery.
var True Query = TrueQuery{}

// Match always returns true.
func (TrueQuery) Match(adapter.Node, *Context) bool {
	return true
}

// OneOfQuery matches when any alternative matches.
type OneOfQuery struct {
	Alternatives []Query
}

// Match implements Query.
func (q *OneOfQuery) Match(node adapter.Node, ctx *Context) bool {
	for _, alt := range q.Alternatives {
		if alt.Match(node, ctx) {
			return true
		}
	}
	return false
}

// PredicateFunc tests a single node.
type PredicateFunc func(node adapter.Node, ctx *Context) bool

// PredicateQuery runs a host-supplied test. It backs pseudo-classes
// registered from outside the engine.
type PredicateQuery struct {
	Cont Query
	Test PredicateFunc
}

// Match implements Query.
func (q *PredicateQuery) Match(node adapter.Node, ctx *Context) bool {
	return q.Test(node, ctx) && q.Cont.Match(node, ctx)
}

// NthMatch applies An+B to a 1-based index. With a == 0 only index b
// matches; otherwise index-b must be a non-negative multiple of a.
func NthMatch(a, b, index int) bool {
	if a == 0 {
		return index == b
	}
	d := index - b
	return d%a == 0 && d/a >= 0
}
