package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders a tree as indented text, one node per line. The output is
// stable and is what golden files and "selbench parse" show.
func Dump(list SelectorList) string {
	d := &dumper{}
	d.selectorList(list)
	return d.sb.String()
}

type dumper struct {
	sb    strings.Builder
	depth int
}

func (d *dumper) line(format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) nest(fn func()) {
	d.depth++
	fn()
	d.depth--
}

func (d *dumper) selectorList(list SelectorList) {
	d.line("SelectorList")
	d.nest(func() {
		for _, s := range list.Selectors {
			d.selector(s)
		}
	})
}

func (d *dumper) selector(s Selector) {
	switch s := s.(type) {
	case CompoundSelector:
		d.compound(s)
	case ComplexSelector:
		d.line("ComplexSelector %s", s.Combinator)
		d.nest(func() {
			d.compound(s.Left)
			d.selector(s.Right)
		})
	}
}

func (d *dumper) compound(c CompoundSelector) {
	d.line("CompoundSelector")
	d.nest(func() {
		switch t := c.Type.(type) {
		case TagNameType:
			d.line("TagNameType %s%s", namespaceString(t.Namespace), strconv.Quote(t.TagName))
		case UniversalType:
			d.line("UniversalType %s*", namespaceString(t.Namespace))
		}
		for _, sub := range c.Subclasses {
			d.subclass(sub)
		}
		for _, pe := range c.PseudoElements {
			d.line("PseudoElement %s", strconv.Quote(pe.Name))
			d.nest(func() {
				if pe.Argument != nil {
					d.argument(pe.Argument)
				}
				for _, pc := range pe.PseudoClasses {
					d.subclass(pc)
				}
			})
		}
	})
}

func (d *dumper) subclass(s SubclassSelector) {
	switch s := s.(type) {
	case ID:
		d.line("ID %s", strconv.Quote(s.Name))
	case ClassName:
		d.line("ClassName %s", strconv.Quote(s.Name))
	case Attribute:
		if s.Matcher == MatchNone {
			d.line("Attribute %s%s", namespaceString(s.Namespace), strconv.Quote(s.Name))
			return
		}
		mod := ""
		if s.Modifier != ModifierNone {
			mod = " " + string(s.Modifier)
		}
		d.line("Attribute %s%s %s %s%s", namespaceString(s.Namespace), strconv.Quote(s.Name),
			s.Matcher, valueString(s.Value), mod)
	case PseudoClass:
		d.line("PseudoClass %s", strconv.Quote(s.Name))
		if s.Argument != nil {
			d.nest(func() { d.argument(s.Argument) })
		}
	}
}

func (d *dumper) argument(a Argument) {
	switch a := a.(type) {
	case SelectorList:
		d.selectorList(a)
	case RelativeSelectorList:
		d.line("RelativeSelectorList")
		d.nest(func() {
			for _, rs := range a.Selectors {
				d.line("RelativeSelector %s", rs.Combinator)
				d.nest(func() { d.selector(rs.Right) })
			}
		})
	case Odd:
		d.line("Odd")
	case Even:
		d.line("Even")
	case Nth:
		d.line("Nth a=%d b=%d", a.A, a.B)
	case NthOfSelectorList:
		d.line("NthOfSelectorList")
		d.nest(func() {
			d.argument(a.Nth)
			if a.SelectorList != nil {
				d.selectorList(*a.SelectorList)
			}
		})
	case ValueList:
		d.line("ValueList")
		d.nest(func() {
			for _, v := range a.Values {
				d.line("%s", valueString(v))
			}
		})
	}
}

func namespaceString(ns NamespacePrefix) string {
	switch ns := ns.(type) {
	case Namespace:
		return strconv.Quote(ns.Name) + "|"
	case UniversalNamespace:
		return "*|"
	}
	return ""
}

func valueString(v Value) string {
	switch v := v.(type) {
	case Substitution:
		return "Substitution " + strconv.Quote(v.Name)
	case Ident:
		return "Ident " + strconv.Quote(v.Value)
	case String:
		return "String " + strconv.Quote(v.Value)
	case Bare:
		return "Bare " + strconv.Quote(v.Value)
	}
	return "<nil>"
}
