// Package adaptertest provides an in-memory tree for tests and a check that
// any adapter.Adapter keeps the contract the engine relies on.
//
// The tree adapter implements only the required methods, so every derived
// operation goes through the default implementations in package adapter.
package adaptertest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Node is an element, or the document when Tag is empty.
type Node struct {
	Tag       string
	Namespace string
	Attrs     []Attr
	Parent    *Node
	Children  []*Node
}

// Attr is one attribute.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

// Attrs lists attributes as name/value pairs. A name of the form "ns|name"
// sets the attribute namespace.
type Attrs []string

// Document builds a document node holding children.
func Document(children ...*Node) *Node {
	doc := &Node{}
	doc.append(children)
	return doc
}

// E builds an element. items are Attrs or child *Node values. A tag of the
// form "ns|tag" sets the element namespace.
func E(tag string, items ...any) *Node {
	n := &Node{}
	n.Namespace, n.Tag = split(tag)
	for _, item := range items {
		switch item := item.(type) {
		case Attrs:
			for i := 0; i+1 < len(item); i += 2 {
				ns, name := split(item[i])
				n.Attrs = append(n.Attrs, Attr{Namespace: ns, Name: name, Value: item[i+1]})
			}
		case *Node:
			n.append([]*Node{item})
		default:
			panic(fmt.Sprintf("adaptertest: unexpected item %T", item))
		}
	}
	return n
}

func split(name string) (ns, local string) {
	if i := strings.IndexByte(name, '|'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func (n *Node) append(children []*Node) {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

// Find returns the first element, in document order, whose id is id.
func (n *Node) Find(id string) *Node {
	for _, c := range n.Children {
		for _, a := range c.Attrs {
			if a.Name == "id" && a.Value == id {
				return c
			}
		}
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	for _, a := range n.Attrs {
		if a.Name == "id" {
			return a.Value
		}
	}
	return ""
}

// Adapter implements adapter.Adapter over *Node.
type Adapter struct{}

var _ adapter.Adapter = Adapter{}

func node(n adapter.Node) *Node {
	v, _ := n.(*Node)
	return v
}

// IsElement implements adapter.Adapter.
func (Adapter) IsElement(n adapter.Node) bool {
	v := node(n)
	return v != nil && v.Tag != ""
}

// TagName implements adapter.Adapter.
func (Adapter) TagName(el adapter.Node) string {
	return node(el).Tag
}

// Namespace implements adapter.Adapter.
func (Adapter) Namespace(el adapter.Node) string {
	return node(el).Namespace
}

// Attribute implements adapter.Adapter.
func (Adapter) Attribute(el adapter.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	for _, a := range node(el).Attrs {
		if namespace != nil && a.Namespace != *namespace {
			continue
		}
		if adapter.EqualName(a.Name, name, mode) {
			return a.Value, true
		}
	}
	return "", false
}

// DocumentNode implements adapter.Adapter.
func (Adapter) DocumentNode(n adapter.Node) adapter.Node {
	v := node(n)
	for v.Parent != nil {
		v = v.Parent
	}
	return v
}

// ParentNode implements adapter.Adapter.
func (Adapter) ParentNode(el adapter.Node) adapter.Node {
	if p := node(el).Parent; p != nil {
		return p
	}
	return nil
}

// PreviousSiblingElement implements adapter.Adapter.
func (Adapter) PreviousSiblingElement(el adapter.Node) adapter.Node {
	v := node(el)
	if v.Parent == nil {
		return nil
	}
	var prev *Node
	for _, c := range v.Parent.Children {
		if c == v {
			break
		}
		prev = c
	}
	if prev == nil {
		return nil
	}
	return prev
}

// EachChildElement implements adapter.Adapter.
func (Adapter) EachChildElement(el adapter.Node, yield func(adapter.Node) bool) {
	for _, c := range node(el).Children {
		if !yield(c) {
			return
		}
	}
}

// Check walks the tree under doc and reports every place where a disagrees
// with the adapter contract: parent and child links that do not match,
// sibling lookups that disagree with the child order, typed nil results and
// optional overrides that disagree with the default behavior. doc must be
// the document node as the adapter identifies it.
func Check(a adapter.Adapter, doc adapter.Node) error {
	c := &checker{a: a, doc: doc}
	if got := a.DocumentNode(doc); got != doc {
		c.errorf("DocumentNode(document) = %v, want the document", got)
	}

	if a.IsElement(doc) {
		c.element(doc)
	}
	adapter.EachRecursiveElement(a, doc, func(n adapter.Node) bool {
		c.element(n)
		return true
	})
	if c.visited == 0 {
		c.errorf("no elements under the document")
	}
	c.walkOrder()
	return errors.Join(c.errs...)
}

type checker struct {
	a       adapter.Adapter
	doc     adapter.Node
	visited int
	errs    []error
}

func (c *checker) errorf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

func (c *checker) element(n adapter.Node) {
	a := c.a
	c.visited++
	name := a.TagName(n)

	if !a.IsElement(n) {
		c.errorf("%s: visited node is not an element", name)
	}
	if name == "" {
		c.errorf("element with an empty tag name")
	}
	if got := a.DocumentNode(n); got != c.doc {
		c.errorf("%s: DocumentNode is not the document", name)
	}

	children := adapter.ChildElements(a, n)
	var walked []adapter.Node
	a.EachChildElement(n, func(child adapter.Node) bool {
		walked = append(walked, child)
		return true
	})
	if len(walked) != len(children) {
		c.errorf("%s: ChildElements has %d nodes, EachChildElement %d", name, len(children), len(walked))
	}
	calls := 0
	a.EachChildElement(n, func(adapter.Node) bool {
		calls++
		return false
	})
	if len(walked) > 0 && calls != 1 {
		c.errorf("%s: EachChildElement ignored a false yield", name)
	}

	for i, child := range walked {
		if i < len(children) && children[i] != child {
			c.errorf("%s: ChildElements()[%d] differs from EachChildElement", name, i)
		}
		if !a.IsElement(child) {
			c.errorf("%s: child %d is not an element", name, i)
		}
		if got := a.ParentNode(child); got != n {
			c.errorf("%s: ParentNode of child %d is not its parent", name, i)
		}
		if got := adapter.ElementIndex(a, n, child); got != i {
			c.errorf("%s: ElementIndex of child %d = %d", name, i, got)
		}
		prev := a.PreviousSiblingElement(child)
		switch {
		case i == 0 && prev != nil:
			c.errorf("%s: first child has previous sibling %T(%v), want untyped nil", name, prev, prev)
		case i > 0 && prev != walked[i-1]:
			c.errorf("%s: PreviousSiblingElement of child %d is not child %d", name, i, i-1)
		}
	}

	// When the document is itself an element, it is the only root.
	parent := a.ParentNode(n)
	root := parent == nil || (parent == c.doc && !a.IsElement(c.doc))
	if adapter.IsRoot(a, n) != root {
		c.errorf("%s: IsRoot = %v, want %v", name, !root, root)
	}
}

// walkOrder compares EachRecursiveElement with a plain pre-order walk.
func (c *checker) walkOrder() {
	var want []adapter.Node
	var walk func(n adapter.Node)
	walk = func(n adapter.Node) {
		c.a.EachChildElement(n, func(child adapter.Node) bool {
			want = append(want, child)
			walk(child)
			return true
		})
	}
	walk(c.doc)

	var got []adapter.Node
	adapter.EachRecursiveElement(c.a, c.doc, func(n adapter.Node) bool {
		got = append(got, n)
		return true
	})
	if len(got) != len(want) {
		c.errorf("EachRecursiveElement visited %d elements, want %d", len(got), len(want))
		return
	}
	for i := range got {
		if got[i] != want[i] {
			c.errorf("EachRecursiveElement is not in document order at %d", i)
			return
		}
	}

	stops := 0
	adapter.EachRecursiveElement(c.a, c.doc, func(adapter.Node) bool {
		stops++
		return false
	})
	if len(want) > 0 && stops != 1 {
		c.errorf("EachRecursiveElement ignored a false yield")
	}
}
