// Package htmladapter binds the selector engine to golang.org/x/net/html
// trees. Use it together with goselect.WithHTML, which switches tag and
// attribute names to case-insensitive matching.
package htmladapter

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Adapter implements adapter.Adapter for *html.Node trees.
type Adapter struct{}

// Default is the shared adapter instance.
var Default = Adapter{}

var (
	_ adapter.Adapter         = Adapter{}
	_ adapter.EmptyChecker    = Adapter{}
	_ adapter.CheckedChecker  = Adapter{}
	_ adapter.DisabledChecker = Adapter{}
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString reads an HTML document from s.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

func node(n adapter.Node) *html.Node {
	h, _ := n.(*html.Node)
	return h
}

// IsElement implements adapter.Adapter.
func (Adapter) IsElement(n adapter.Node) bool {
	h := node(n)
	return h != nil && h.Type == html.ElementNode
}

// TagName implements adapter.Adapter.
func (Adapter) TagName(el adapter.Node) string {
	return node(el).Data
}

// Namespace returns "svg" or "math" for foreign elements, "" otherwise.
func (Adapter) Namespace(el adapter.Node) string {
	return node(el).Namespace
}

// Attribute implements adapter.Adapter.
func (Adapter) Attribute(el adapter.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	return attr(node(el), name, namespace, mode)
}

func attr(h *html.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	for _, a := range h.Attr {
		if namespace != nil && a.Namespace != *namespace {
			continue
		}
		if adapter.EqualName(a.Key, name, mode) {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(h *html.Node, name string) bool {
	_, ok := attr(h, name, nil, adapter.CaseInsensitive)
	return ok
}

// DocumentNode implements adapter.Adapter.
func (Adapter) DocumentNode(n adapter.Node) adapter.Node {
	h := node(n)
	if h == nil {
		return nil
	}
	for h.Parent != nil {
		h = h.Parent
	}
	return h
}

// ParentNode implements adapter.Adapter.
func (Adapter) ParentNode(el adapter.Node) adapter.Node {
	if h := node(el); h != nil && h.Parent != nil {
		return h.Parent
	}
	return nil
}

// PreviousSiblingElement implements adapter.Adapter.
func (Adapter) PreviousSiblingElement(el adapter.Node) adapter.Node {
	h := node(el)
	if h == nil {
		return nil
	}
	for s := h.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// EachChildElement implements adapter.Adapter.
func (Adapter) EachChildElement(el adapter.Node, yield func(adapter.Node) bool) {
	h := node(el)
	if h == nil {
		return
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !yield(c) {
			return
		}
	}
}

// IsEmpty reports whether the element has no element children and no text
// other than whitespace. Comments do not count.
func (Adapter) IsEmpty(el adapter.Node) bool {
	for c := node(el).FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.Trim(c.Data, " \t\n\r\f") != "" {
				return false
			}
		}
	}
	return true
}

// IsChecked matches checked checkboxes and radio buttons and selected
// options.
func (Adapter) IsChecked(el adapter.Node) bool {
	h := node(el)
	switch strings.ToLower(h.Data) {
	case "input":
		typ, _ := attr(h, "type", nil, adapter.CaseInsensitive)
		typ = strings.ToLower(typ)
		return (typ == "checkbox" || typ == "radio") && hasAttr(h, "checked")
	case "option":
		return hasAttr(h, "selected")
	}
	return false
}

// IsDisabled matches form controls carrying a disabled attribute, options in
// a disabled optgroup, and controls inside a disabled fieldset outside its
// first legend.
func (Adapter) IsDisabled(el adapter.Node) bool {
	h := node(el)
	switch strings.ToLower(h.Data) {
	case "button", "input", "select", "textarea":
		return hasAttr(h, "disabled") || inDisabledFieldset(h)
	case "optgroup", "fieldset":
		return hasAttr(h, "disabled")
	case "option":
		if hasAttr(h, "disabled") {
			return true
		}
		p := h.Parent
		return p != nil && p.Type == html.ElementNode && strings.EqualFold(p.Data, "optgroup") && hasAttr(p, "disabled")
	}
	return false
}

func inDisabledFieldset(h *html.Node) bool {
	child := h
	for p := h.Parent; p != nil; child, p = p, p.Parent {
		if p.Type != html.ElementNode || !strings.EqualFold(p.Data, "fieldset") || !hasAttr(p, "disabled") {
			continue
		}
		if child == firstLegend(p) {
			continue
		}
		return true
	}
	return false
}

func firstLegend(fieldset *html.Node) *html.Node {
	for c := fieldset.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, "legend") {
			return c
		}
	}
	return nil
}
