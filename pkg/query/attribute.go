package query

import (
	"slices"
	"strings"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/ast"
)

// IDQuery matches the id attribute exactly.
type IDQuery struct {
	Cont Query
	Name string
}

// Match implements Query.
func (q *IDQuery) Match(node adapter.Node, ctx *Context) bool {
	if !ctx.adapter.IsElement(node) {
		return false
	}
	id, ok := adapter.ID(ctx.adapter, node)
	return ok && id == q.Name && q.Cont.Match(node, ctx)
}

// ClassNameQuery matches one whitespace-separated class name.
type ClassNameQuery struct {
	Cont Query
	Name string
}

// Match implements Query.
func (q *ClassNameQuery) Match(node adapter.Node, ctx *Context) bool {
	if !ctx.adapter.IsElement(node) {
		return false
	}
	return slices.Contains(adapter.ClassNames(ctx.adapter, node), q.Name) && q.Cont.Match(node, ctx)
}

// AttributePresenceQuery matches when the attribute exists.
type AttributePresenceQuery struct {
	Cont      Query
	Name      string
	Namespace *string
}

// Match implements Query.
func (q *AttributePresenceQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	if !a.IsElement(node) {
		return false
	}
	_, ok := a.Attribute(node, q.Name, q.Namespace, ctx.options.AttributeNameCase)
	return ok && q.Cont.Match(node, ctx)
}

// AttributeMatcherQuery compares an attribute value with one of the six
// matchers.
type AttributeMatcherQuery struct {
	Cont      Query
	Name      string
	Namespace *string
	Matcher   ast.Matcher
	Value     ast.Value
	Modifier  ast.Modifier
}

// Match implements Query.
func (q *AttributeMatcherQuery) Match(node adapter.Node, ctx *Context) bool {
	a := ctx.adapter
	if !a.IsElement(node) {
		return false
	}

	expected, ok := ResolveValue(q.Value, ctx)
	if !ok {
		return false
	}
	actual, ok := a.Attribute(node, q.Name, q.Namespace, ctx.options.AttributeNameCase)
	if !ok {
		return false
	}

	if q.Modifier == ast.ModifierInsensitive && !ctx.options.CaseSensitiveAttributeValues.Has(q.Name) {
		expected = lowerASCII(expected)
		actual = lowerASCII(actual)
	}

	return matchAttributeValue(q.Matcher, actual, expected) && q.Cont.Match(node, ctx)
}

func matchAttributeValue(m ast.Matcher, actual, expected string) bool {
	switch m {
	case ast.MatchEqual:
		return actual == expected
	case ast.MatchIncludes:
		return slices.Contains(strings.Fields(actual), expected)
	case ast.MatchDashPrefix:
		return actual == expected || strings.HasPrefix(actual, expected+"-")
	case ast.MatchPrefix:
		return expected != "" && strings.HasPrefix(actual, expected)
	case ast.MatchSuffix:
		return expected != "" && strings.HasSuffix(actual, expected)
	case ast.MatchSubstring:
		return expected != "" && strings.Contains(actual, expected)
	}
	return false
}

// ResolveValue returns the string a value stands for. A substitution that
// the context does not define resolves to nothing.
func ResolveValue(v ast.Value, ctx *Context) (string, bool) {
	switch v := v.(type) {
	case ast.Substitution:
		return ctx.Substitution(v.Name)
	case ast.Ident:
		return v.Value, true
	case ast.String:
		return v.Value, true
	case ast.Bare:
		return v.Value, true
	}
	return "", false
}
