// Package extlink provides the hyperlink pseudo-classes :any-link and :link.
// Documents carry no visited state, so both match the same elements: a,
// area and link elements with an href attribute.
package extlink

import (
	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/query"
)

// All returns all link pseudo-class definitions.
func All() []compiler.PseudoClassDef {
	return []compiler.PseudoClassDef{
		AnyLink(),
		Link(),
	}
}

// AnyLink returns the definition for :any-link.
func AnyLink() compiler.PseudoClassDef {
	return compiler.Predicate("any-link", isLink)
}

// Link returns the definition for :link.
func Link() compiler.PseudoClassDef {
	return compiler.Predicate("link", isLink)
}

func isLink(ctx *query.Context, el adapter.Node) bool {
	a := ctx.Adapter()
	switch tag := a.TagName(el); {
	case adapter.EqualName(tag, "a", adapter.CaseInsensitive),
		adapter.EqualName(tag, "area", adapter.CaseInsensitive),
		adapter.EqualName(tag, "link", adapter.CaseInsensitive):
		_, ok := a.Attribute(el, "href", nil, ctx.Options().AttributeNameCase)
		return ok
	}
	return false
}
