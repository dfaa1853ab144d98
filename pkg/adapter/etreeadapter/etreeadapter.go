// Package etreeadapter binds the selector engine to github.com/beevik/etree
// XML documents. It is the default adapter of the goselect package.
//
// Nodes are *etree.Element values. The document node is the Element embedded
// in *etree.Document (its Tag is empty), so pass either the document or any
// element as a scope; Normalize maps *etree.Document to its embedded Element.
package etreeadapter

import (
	"io"

	"github.com/beevik/etree"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Adapter implements adapter.Adapter for etree. The zero value is ready to
// use and safe for concurrent reads.
type Adapter struct{}

// Default is the shared adapter instance.
var Default = Adapter{}

var (
	_ adapter.Adapter         = Adapter{}
	_ adapter.EmptyChecker    = Adapter{}
	_ adapter.ChildLister     = Adapter{}
	_ adapter.ElementIndexer  = Adapter{}
	_ adapter.Normalizer      = Adapter{}
	_ adapter.RecursiveWalker = Adapter{}
)

// ParseString reads an XML document from s.
func ParseString(s string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse reads an XML document from r.
func Parse(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return doc, nil
}

func element(node adapter.Node) *etree.Element {
	switch n := node.(type) {
	case *etree.Element:
		return n
	case *etree.Document:
		if n != nil {
			return &n.Element
		}
	}
	return nil
}

// Normalize implements adapter.Normalizer.
func (Adapter) Normalize(node adapter.Node) adapter.Node {
	if e := element(node); e != nil {
		return e
	}
	return node
}

// IsElement implements adapter.Adapter.
func (Adapter) IsElement(node adapter.Node) bool {
	e, ok := node.(*etree.Element)
	return ok && e != nil && e.Tag != ""
}

// TagName implements adapter.Adapter.
func (Adapter) TagName(el adapter.Node) string {
	return el.(*etree.Element).Tag
}

// Namespace returns the namespace prefix of the element.
func (Adapter) Namespace(el adapter.Node) string {
	return el.(*etree.Element).Space
}

// Attribute implements adapter.Adapter. namespace is compared with the
// attribute prefix.
func (Adapter) Attribute(el adapter.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	e := el.(*etree.Element)
	for _, attr := range e.Attr {
		if namespace != nil && attr.Space != *namespace {
			continue
		}
		if adapter.EqualName(attr.Key, name, mode) {
			return attr.Value, true
		}
	}
	return "", false
}

// DocumentNode implements adapter.Adapter. A detached element tree has its
// topmost element as document node.
func (Adapter) DocumentNode(node adapter.Node) adapter.Node {
	e := element(node)
	if e == nil {
		return nil
	}
	for p := e.Parent(); p != nil; p = p.Parent() {
		e = p
	}
	return e
}

// ParentNode implements adapter.Adapter.
func (Adapter) ParentNode(el adapter.Node) adapter.Node {
	e := element(el)
	if e == nil {
		return nil
	}
	if p := e.Parent(); p != nil {
		return p
	}
	return nil
}

// PreviousSiblingElement implements adapter.Adapter.
func (Adapter) PreviousSiblingElement(el adapter.Node) adapter.Node {
	e := element(el)
	if e == nil {
		return nil
	}
	p := e.Parent()
	if p == nil {
		return nil
	}
	for i := e.Index() - 1; i >= 0; i-- {
		if prev, ok := p.Child[i].(*etree.Element); ok {
			return prev
		}
	}
	return nil
}

// EachChildElement implements adapter.Adapter.
func (Adapter) EachChildElement(el adapter.Node, yield func(adapter.Node) bool) {
	e := element(el)
	if e == nil {
		return
	}
	for _, t := range e.Child {
		if c, ok := t.(*etree.Element); ok {
			if !yield(c) {
				return
			}
		}
	}
}

// ChildElements implements adapter.ChildLister.
func (Adapter) ChildElements(el adapter.Node) []adapter.Node {
	e := element(el)
	if e == nil {
		return nil
	}
	children := make([]adapter.Node, 0, len(e.Child))
	for _, t := range e.Child {
		if c, ok := t.(*etree.Element); ok {
			children = append(children, c)
		}
	}
	return children
}

// ElementIndex implements adapter.ElementIndexer.
func (Adapter) ElementIndex(parent, el adapter.Node) int {
	p, e := element(parent), element(el)
	if p == nil || e == nil || e.Parent() != p {
		return -1
	}
	index := 0
	for _, t := range p.Child[:e.Index()] {
		if _, ok := t.(*etree.Element); ok {
			index++
		}
	}
	return index
}

// IsEmpty implements adapter.EmptyChecker. Whitespace-only text counts as
// empty; comments, directives and processing instructions are ignored.
func (Adapter) IsEmpty(el adapter.Node) bool {
	for _, t := range el.(*etree.Element).Child {
		switch c := t.(type) {
		case *etree.Element:
			return false
		case *etree.CharData:
			if !c.IsWhitespace() {
				return false
			}
		}
	}
	return true
}

// EachRecursiveElement implements adapter.RecursiveWalker.
func (a Adapter) EachRecursiveElement(el adapter.Node, yield func(adapter.Node) bool) {
	e := element(el)
	if e == nil {
		return
	}
	var walk func(e *etree.Element) bool
	walk = func(e *etree.Element) bool {
		for _, t := range e.Child {
			c, ok := t.(*etree.Element)
			if !ok {
				continue
			}
			if !yield(c) || !walk(c) {
				return false
			}
		}
		return true
	}
	walk(e)
}
