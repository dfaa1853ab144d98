// Package extlang provides the :lang() pseudo-class.
//
// The language of an element is the value of the nearest lang or xml:lang
// attribute on the element or its ancestors. :lang(en, "fr-CA", $lang)
// matches when that language equals one of the ranges or starts with the
// range followed by "-", ignoring ASCII case. The range "*" matches any
// non-empty language.
package extlang

import (
	"strings"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/query"
)

// All returns all language pseudo-class definitions.
func All() []compiler.PseudoClassDef {
	return []compiler.PseudoClassDef{Lang()}
}

// Lang returns the definition for :lang().
func Lang() compiler.PseudoClassDef {
	return compiler.ValuePredicate("lang", func(ctx *query.Context, el adapter.Node, ranges []string) bool {
		lang, ok := Of(ctx.Adapter(), el)
		if !ok {
			return false
		}
		for _, r := range ranges {
			if MatchRange(lang, r) {
				return true
			}
		}
		return false
	})
}

var xmlNamespace = "xml"

// Of returns the language of el.
func Of(a adapter.Adapter, el adapter.Node) (string, bool) {
	for node := el; node != nil && a.IsElement(node); node = a.ParentNode(node) {
		if v, ok := a.Attribute(node, "lang", &xmlNamespace, adapter.CaseSensitive); ok {
			return v, true
		}
		if v, ok := a.Attribute(node, "lang", nil, adapter.CaseInsensitive); ok {
			return v, true
		}
	}
	return "", false
}

// MatchRange reports whether lang falls under the language range r.
func MatchRange(lang, r string) bool {
	if r == "*" {
		return lang != ""
	}
	lang, r = strings.ToLower(lang), strings.ToLower(r)
	return lang == r || (r != "" && strings.HasPrefix(lang, r+"-"))
}
