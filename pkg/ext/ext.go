// Package ext provides optional pseudo-classes beyond the built-in set.
//
// The definitions live in sub-packages grouped by category:
//   - extforms – :enabled, :required, :optional, :read-only, :read-write
//   - extlang  – :lang()
//   - extlink  – :any-link, :link
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/goselect/pkg/ext"
//
//	nodes, err := goselect.SelectAll(doc, "input:required:enabled", ext.WithAll())
//
// # Integration – by category
//
//	nodes, err := goselect.SelectAll(doc, "p:lang(en)",
//	    ext.WithLang(),
//	    ext.WithLink(),
//	)
//
// # Integration – single pseudo-class from a sub-package
//
//	import "github.com/sandrolain/goselect/pkg/ext/extforms"
//
//	nodes, err := goselect.SelectAll(doc, "input:required",
//	    goselect.WithPseudoClass(extforms.Required()),
//	)
package ext

import (
	goselect "github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/ext/extforms"
	"github.com/sandrolain/goselect/pkg/ext/extlang"
	"github.com/sandrolain/goselect/pkg/ext/extlink"
)

// All returns every extension pseudo-class definition.
func All() []compiler.PseudoClassDef {
	var all []compiler.PseudoClassDef
	all = append(all, extforms.All()...)
	all = append(all, extlang.All()...)
	all = append(all, extlink.All()...)
	return all
}

// WithAll returns an Option that registers every extension pseudo-class.
func WithAll() goselect.Option {
	return goselect.WithPseudoClasses(All()...)
}

// WithForms returns an Option for the form-state pseudo-classes.
func WithForms() goselect.Option {
	return goselect.WithPseudoClasses(extforms.All()...)
}

// WithLang returns an Option for :lang().
func WithLang() goselect.Option {
	return goselect.WithPseudoClasses(extlang.All()...)
}

// WithLink returns an Option for the hyperlink pseudo-classes.
func WithLink() goselect.Option {
	return goselect.WithPseudoClasses(extlink.All()...)
}
