package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// DescendantQuery runs its continuation against each ancestor in turn,
// nearest first, and stops at the first match.
//
// Results are memoized per (ID, ancestor) in the context. All ancestors
// visited during one walk share a deferredResult, so when the walk later
// succeeds, or reaches an ancestor that is already cached, every entry
// recorded along the way picks up the same answer.
type DescendantQuery struct {
	ID   int
	Cont Query
}

// Match implements Query.
func (q *DescendantQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	var result *deferredResult

	for node = a.ParentNode(node); node != nil; node = a.ParentNode(node) {
		if cached, ok := ctx.descendantResult(q.ID, node); ok {
			if result != nil {
				result.matched = cached.matched
			}
			return cached.matched
		}
		if result == nil {
			result = &deferredResult{}
		}
		result.matched = q.Cont.Match(node, ctx)
		ctx.storeDescendantResult(q.ID, node, result)
		if result.matched {
			return true
		}
	}
	return false
}

// ChildQuery runs its continuation against the parent element.
type ChildQuery struct {
	Cont Query
}

// Match implements Query.
func (q *ChildQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := ctx.adapter.ParentNode(node)
	return parent != nil && ctx.adapter.IsElement(parent) && q.Cont.Match(parent, ctx)
}

// AdjacentQuery runs its continuation against the previous sibling element.
type AdjacentQuery struct {
	Cont Query
}

// Match implements Query.
func (q *AdjacentQuery) Match(node adapter.Node, ctx *Context) bool {
	prev := ctx.adapter.PreviousSiblingElement(node)
	return prev != nil && ctx.adapter.IsElement(prev) && q.Cont.Match(prev, ctx)
}

// SiblingQuery runs its continuation against each preceding sibling element,
// nearest first, and stops at the first match.
type SiblingQuery struct {
	Cont Query
}

// Match implements Query.
func (q *SiblingQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	for node = a.PreviousSiblingElement(node); node != nil; node = a.PreviousSiblingElement(node) {
		if a.IsElement(node) && q.Cont.Match(node, ctx) {
			return true
		}
	}
	return false
}
