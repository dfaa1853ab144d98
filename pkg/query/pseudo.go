package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// NestedQuery is :is() and :where(). The inner query tests the same node
// and does not move it.
type NestedQuery struct {
	Cont  Query
	Inner Query
}

// Match implements Query.
func (q *NestedQuery) Match(node adapter.Node, ctx *Context) bool {
	return q.Inner.Match(node, ctx) && q.Cont.Match(node, ctx)
}

// NotQuery is :not().
type NotQuery struct {
	Cont  Query
	Inner Query
}

// Match implements Query.
func (q *NotQuery) Match(node adapter.Node, ctx *Context) bool {
	return !q.Inner.Match(node, ctx) && q.Cont.Match(node, ctx)
}

// ScopeQuery is :scope.
type ScopeQuery struct {
	Cont Query
}

// Match implements Query.
func (q *ScopeQuery) Match(node adapter.Node, ctx *Context) bool {
	return node == ctx.scope && q.Cont.Match(node, ctx)
}

// RootQuery is :root.
type RootQuery struct {
	Cont Query
}

// Match implements Query.
func (q *RootQuery) Match(node adapter.Node, ctx *Context) bool {
	return ctx.adapter.IsElement(node) && adapter.IsRoot(ctx.adapter, node) && q.Cont.Match(node, ctx)
}

// HasQuery is :has(). Inner is compiled from the relative selectors with
// a leading :scope, and runs with the scope rebased to the tested node.
//
// The search covers the descendants of the node, or of its parent when
// NeedsParent is set (a "+" or "~" relative selector needs siblings in
// reach). The tested node itself never counts as a match.
type HasQuery struct {
	Cont        Query
	Inner       Query
	NeedsParent bool
}

// Match implements Query.
func (q *HasQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	if !a.IsElement(node) {
		return false
	}

	base := node
	if q.NeedsParent {
		if base = a.ParentNode(node); base == nil {
			return false
		}
	}

	matched := false
	ctx.Scoped(node, func() {
		adapter.EachRecursiveElement(a, base, func(candidate adapter.Node) bool {
			if candidate == node {
				return true
			}
			if q.Inner.Match(candidate, ctx) {
				matched = true
				return false
			}
			return true
		})
	})
	return matched && q.Cont.Match(node, ctx)
}

// EmptyQuery is :empty.
type EmptyQuery struct {
	Cont Query
}

// Match implements Query.
func (q *EmptyQuery) Match(node adapter.Node, ctx *Context) bool {
	return ctx.adapter.IsElement(node) && adapter.IsEmpty(ctx.adapter, node) && q.Cont.Match(node, ctx)
}

// CheckedQuery is :checked. Nodes listed in Options.CheckedElements match
// whatever their attributes say.
type CheckedQuery struct {
	Cont Query
}

// Match implements Query.
func (q *CheckedQuery) Match(node adapter.Node, ctx *Context) bool {
	if !ctx.adapter.IsElement(node) {
		return false
	}
	checked := adapter.IsChecked(ctx.adapter, node) || ctx.options.CheckedElements.Has(node)
	return checked && q.Cont.Match(node, ctx)
}

// DisabledQuery is :disabled. Nodes listed in Options.DisabledElements match
// whatever their attributes say.
type DisabledQuery struct {
	Cont Query
}

// Match implements Query.
func (q *DisabledQuery) Match(node adapter.Node, ctx *Context) bool {
	if !ctx.adapter.IsElement(node) {
		return false
	}
	disabled := adapter.IsDisabled(ctx.adapter, node) || ctx.options.DisabledElements.Has(node)
	return disabled && q.Cont.Match(node, ctx)
}
