package query

import (
	"slices"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// parentOf returns the parent of an element, or nil when node is not an
// element or has no parent.
func parentOf(node adapter.Node, ctx *Context) adapter.Node {
	if !ctx.adapter.IsElement(node) {
		return nil
	}
	return ctx.adapter.ParentNode(node)
}

// NthChildQuery is :nth-child(An+B) over all sibling elements.
type NthChildQuery struct {
	Cont Query
	A, B int
}

// Match implements Query.
func (q *NthChildQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	index := adapter.ElementIndex(ctx.adapter, parent, node)
	if index < 0 {
		return false
	}
	return NthMatch(q.A, q.B, index+1) && q.Cont.Match(node, ctx)
}

// NthLastChildQuery is :nth-last-child(An+B), counting from the last sibling.
type NthLastChildQuery struct {
	Cont Query
	A, B int
}

// Match implements Query.
func (q *NthLastChildQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	index := adapter.ElementIndex(ctx.adapter, parent, node)
	if index < 0 {
		return false
	}
	size := len(adapter.ChildElements(ctx.adapter, parent))
	return NthMatch(q.A, q.B, size-index) && q.Cont.Match(node, ctx)
}

// NthChildOfQuery is :nth-child(An+B of S). Only siblings matching Of are
// counted; that subsequence is cached per (ID, parent).
type NthChildOfQuery struct {
	ID   int
	Cont Query
	A, B int
	Of   Query
}

// Match implements Query.
func (q *NthChildOfQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	matched := ctx.matchingChildren(q.ID, parent, q.Of)
	index := slices.Index(matched, node)
	if index < 0 {
		return false
	}
	return NthMatch(q.A, q.B, index+1) && q.Cont.Match(node, ctx)
}

// NthLastChildOfQuery is :nth-last-child(An+B of S).
type NthLastChildOfQuery struct {
	ID   int
	Cont Query
	A, B int
	Of   Query
}

// Match implements Query.
func (q *NthLastChildOfQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	matched := ctx.matchingChildren(q.ID, parent, q.Of)
	index := slices.Index(matched, node)
	if index < 0 {
		return false
	}
	return NthMatch(q.A, q.B, len(matched)-index) && q.Cont.Match(node, ctx)
}

// sameTypeSiblings returns the children of parent whose tag name equals the
// tag name of node. Namespaces are ignored.
func sameTypeSiblings(parent, node adapter.Node, ctx *Context) []adapter.Node {
	a := ctx.adapter
	insensitive := ctx.options.TagNameCase == adapter.CaseInsensitive
	tagName := a.TagName(node)

	var siblings []adapter.Node
	a.EachChildElement(parent, func(child adapter.Node) bool {
		if equalName(a.TagName(child), tagName, insensitive) {
			siblings = append(siblings, child)
		}
		return true
	})
	return siblings
}

// NthOfTypeQuery is :nth-of-type(An+B).
type NthOfTypeQuery struct {
	Cont Query
	A, B int
}

// Match implements Query.
func (q *NthOfTypeQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	index := slices.Index(sameTypeSiblings(parent, node, ctx), node)
	if index < 0 {
		return false
	}
	return NthMatch(q.A, q.B, index+1) && q.Cont.Match(node, ctx)
}

// NthLastOfTypeQuery is :nth-last-of-type(An+B).
type NthLastOfTypeQuery struct {
	Cont Query
	A, B int
}

// Match implements Query.
func (q *NthLastOfTypeQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	siblings := sameTypeSiblings(parent, node, ctx)
	index := slices.Index(siblings, node)
	if index < 0 {
		return false
	}
	return NthMatch(q.A, q.B, len(siblings)-index) && q.Cont.Match(node, ctx)
}

// OnlyChildQuery matches an element with no sibling elements.
type OnlyChildQuery struct {
	Cont Query
}

// Match implements Query.
func (q *OnlyChildQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	count := 0
	ctx.adapter.EachChildElement(parent, func(adapter.Node) bool {
		count++
		return count < 2
	})
	return count == 1 && q.Cont.Match(node, ctx)
}

// OnlyOfTypeQuery matches an element with no sibling of the same type.
type OnlyOfTypeQuery struct {
	Cont Query
}

// Match implements Query.
func (q *OnlyOfTypeQuery) Match(node adapter.Node, ctx *Context) bool {
	parent := parentOf(node, ctx)
	if parent == nil {
		return false
	}
	return len(sameTypeSiblings(parent, node, ctx)) == 1 && q.Cont.Match(node, ctx)
}
