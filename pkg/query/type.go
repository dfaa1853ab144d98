package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// TagNameTypeQuery matches elements by tag name and, when Namespace is not
// nil, by namespace prefix.
type TagNameTypeQuery struct {
	Cont      Query
	TagName   string
	Namespace *string
}

// Match implements Query.
func (q *TagNameTypeQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	if !a.IsElement(node) {
		return false
	}
	if q.Namespace != nil && a.Namespace(node) != *q.Namespace {
		return false
	}
	insensitive := ctx.options.TagNameCase == adapter.CaseInsensitive
	return equalName(a.TagName(node), q.TagName, insensitive) && q.Cont.Match(node, ctx)
}

// UniversalTypeQuery matches any element, optionally in one namespace.
type UniversalTypeQuery struct {
	Cont      Query
	Namespace *string
}

// Match implements Query.
func (q *UniversalTypeQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	if !a.IsElement(node) {
		return false
	}
	if q.Namespace != nil && a.Namespace(node) != *q.Namespace {
		return false
	}
	return q.Cont.Match(node, ctx)
}
