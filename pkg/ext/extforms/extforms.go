// Package extforms provides form-state pseudo-classes beyond the built-in
// :checked and :disabled.
//
// Form controls are recognized by tag name, ignoring ASCII case:
// button, input, select, textarea, optgroup, option and fieldset.
package extforms

import (
	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/query"
)

// All returns all form pseudo-class definitions.
func All() []compiler.PseudoClassDef {
	return []compiler.PseudoClassDef{
		Enabled(),
		Required(),
		Optional(),
		ReadOnly(),
		ReadWrite(),
	}
}

var formControls = []string{"button", "input", "select", "textarea", "optgroup", "option", "fieldset"}

// Enabled returns the definition for :enabled, a form control that is not
// disabled.
func Enabled() compiler.PseudoClassDef {
	return compiler.Predicate("enabled", func(ctx *query.Context, el adapter.Node) bool {
		return isTag(ctx, el, formControls...) && !isDisabled(ctx, el)
	})
}

// Required returns the definition for :required.
func Required() compiler.PseudoClassDef {
	return compiler.Predicate("required", func(ctx *query.Context, el adapter.Node) bool {
		return isTag(ctx, el, "input", "select", "textarea") && hasAttribute(ctx, el, "required")
	})
}

// Optional returns the definition for :optional.
func Optional() compiler.PseudoClassDef {
	return compiler.Predicate("optional", func(ctx *query.Context, el adapter.Node) bool {
		return isTag(ctx, el, "input", "select", "textarea") && !hasAttribute(ctx, el, "required")
	})
}

// ReadWrite returns the definition for :read-write: editable text controls
// and elements with a contenteditable attribute other than "false".
func ReadWrite() compiler.PseudoClassDef {
	return compiler.Predicate("read-write", isReadWrite)
}

// ReadOnly returns the definition for :read-only, the complement of
// :read-write.
func ReadOnly() compiler.PseudoClassDef {
	return compiler.Predicate("read-only", func(ctx *query.Context, el adapter.Node) bool {
		return !isReadWrite(ctx, el)
	})
}

// textInputTypes are the input types whose value the user can edit.
var textInputTypes = query.NewStringSet(
	"", "text", "search", "url", "tel", "email", "password", "date", "month",
	"week", "time", "datetime-local", "number",
)

func isReadWrite(ctx *query.Context, el adapter.Node) bool {
	switch {
	case isTag(ctx, el, "input"):
		typ, _ := attribute(ctx, el, "type")
		return textInputTypes.Has(typ) && !hasAttribute(ctx, el, "readonly") && !isDisabled(ctx, el)
	case isTag(ctx, el, "textarea"):
		return !hasAttribute(ctx, el, "readonly") && !isDisabled(ctx, el)
	}
	v, ok := attribute(ctx, el, "contenteditable")
	return ok && !adapter.EqualName(v, "false", adapter.CaseInsensitive)
}

func isTag(ctx *query.Context, el adapter.Node, names ...string) bool {
	tag := ctx.Adapter().TagName(el)
	for _, name := range names {
		if adapter.EqualName(tag, name, adapter.CaseInsensitive) {
			return true
		}
	}
	return false
}

func isDisabled(ctx *query.Context, el adapter.Node) bool {
	return adapter.IsDisabled(ctx.Adapter(), el) || ctx.Options().DisabledElements.Has(el)
}

func attribute(ctx *query.Context, el adapter.Node, name string) (string, bool) {
	return ctx.Adapter().Attribute(el, name, nil, ctx.Options().AttributeNameCase)
}

func hasAttribute(ctx *query.Context, el adapter.Node, name string) bool {
	_, ok := attribute(ctx, el, name)
	return ok
}
