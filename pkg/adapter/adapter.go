// Package adapter defines the contract between the selector engine and a
// concrete tree.
//
// An Adapter supplies a handful of primitive traversal operations. Everything
// else the engine needs (root and empty checks, child lists, class names,
// recursive walks) is derived from them by the free functions in this package.
// An adapter that can answer one of those questions faster implements the
// matching optional interface (RootChecker, EmptyChecker, ...) and the free
// function will call it instead of the default.
//
// Nodes are opaque to the engine. They must be comparable with == and keep a
// stable identity for the duration of a match call, because the engine uses
// them as map keys. Pointers are the usual choice.
//
// Adapters are only read from. If callers match concurrently against the same
// tree, the adapter's read operations must be safe for concurrent use.
package adapter

import "strings"

// Node is an opaque tree node.
type Node = any

// CaseMode selects how names are compared.
type CaseMode int

const (
	// CaseSensitive compares names byte for byte.
	CaseSensitive CaseMode = iota
	// CaseInsensitive folds ASCII letters before comparing.
	CaseInsensitive
)

// String returns "sensitive" or "insensitive".
func (m CaseMode) String() string {
	if m == CaseInsensitive {
		return "insensitive"
	}
	return "sensitive"
}

// EqualName compares two names under mode. Only ASCII letters are folded.
func EqualName(a, b string, mode CaseMode) bool {
	if mode == CaseSensitive || len(a) != len(b) {
		return a == b
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Adapter is the minimal set of tree operations the engine requires.
//
// Methods that return a Node return an untyped nil when there is no such node.
type Adapter interface {
	// IsElement reports whether node is an element. Document nodes, text and
	// comments are not elements.
	IsElement(node Node) bool
	// TagName returns the local name of element.
	TagName(element Node) string
	// Namespace returns the namespace prefix of element, "" when it has none.
	Namespace(element Node) string
	// Attribute looks up an attribute value. A nil namespace matches the
	// attribute in any namespace. mode governs how name is compared.
	Attribute(element Node, name string, namespace *string, mode CaseMode) (string, bool)
	// DocumentNode returns the document that owns node.
	DocumentNode(node Node) Node
	// ParentNode returns the parent of element, which may be the document node.
	ParentNode(element Node) Node
	// PreviousSiblingElement returns the closest preceding sibling element.
	PreviousSiblingElement(element Node) Node
	// EachChildElement calls yield for each child element in document order
	// until yield returns false.
	EachChildElement(element Node, yield func(Node) bool)
}

// RootChecker overrides IsRoot.
type RootChecker interface {
	IsRoot(element Node) bool
}

// EmptyChecker overrides IsEmpty.
type EmptyChecker interface {
	IsEmpty(element Node) bool
}

// CheckedChecker overrides IsChecked.
type CheckedChecker interface {
	IsChecked(element Node) bool
}

// DisabledChecker overrides IsDisabled.
type DisabledChecker interface {
	IsDisabled(element Node) bool
}

// ChildLister overrides ChildElements.
type ChildLister interface {
	ChildElements(element Node) []Node
}

// ElementIndexer overrides ElementIndex.
type ElementIndexer interface {
	ElementIndex(parent, element Node) int
}

// ClassLister overrides ClassNames.
type ClassLister interface {
	ClassNames(element Node) []string
}

// IDGetter overrides ID.
type IDGetter interface {
	ID(element Node) (string, bool)
}

// RecursiveWalker overrides EachRecursiveElement.
type RecursiveWalker interface {
	EachRecursiveElement(element Node, yield func(Node) bool)
}

// Normalizer maps host values to the node identity the adapter uses, for
// example a document wrapper to its root node.
type Normalizer interface {
	Normalize(node Node) Node
}

// Normalize returns node as the adapter identifies it.
func Normalize(a Adapter, node Node) Node {
	if n, ok := a.(Normalizer); ok {
		return n.Normalize(node)
	}
	return node
}

// IsRoot reports whether element is the root element, i.e. its parent is the
// document node or it has no parent.
func IsRoot(a Adapter, element Node) bool {
	if rc, ok := a.(RootChecker); ok {
		return rc.IsRoot(element)
	}
	parent := a.ParentNode(element)
	return parent == nil || parent == a.DocumentNode(element)
}

// IsEmpty reports whether element has no child elements. Adapters that track
// text content implement EmptyChecker to refine this.
func IsEmpty(a Adapter, element Node) bool {
	if ec, ok := a.(EmptyChecker); ok {
		return ec.IsEmpty(element)
	}
	empty := true
	a.EachChildElement(element, func(Node) bool {
		empty = false
		return false
	})
	return empty
}

// IsChecked reports whether element carries a "checked" attribute.
func IsChecked(a Adapter, element Node) bool {
	if cc, ok := a.(CheckedChecker); ok {
		return cc.IsChecked(element)
	}
	_, ok := a.Attribute(element, "checked", nil, CaseSensitive)
	return ok
}

// IsDisabled reports whether element carries a "disabled" attribute.
func IsDisabled(a Adapter, element Node) bool {
	if dc, ok := a.(DisabledChecker); ok {
		return dc.IsDisabled(element)
	}
	_, ok := a.Attribute(element, "disabled", nil, CaseSensitive)
	return ok
}

// ChildElements returns the child elements of element in document order.
func ChildElements(a Adapter, element Node) []Node {
	if cl, ok := a.(ChildLister); ok {
		return cl.ChildElements(element)
	}
	var children []Node
	a.EachChildElement(element, func(child Node) bool {
		children = append(children, child)
		return true
	})
	return children
}

// ElementIndex returns the 0-based position of element among the child
// elements of parent, or -1.
func ElementIndex(a Adapter, parent, element Node) int {
	if ei, ok := a.(ElementIndexer); ok {
		return ei.ElementIndex(parent, element)
	}
	index, i := -1, 0
	a.EachChildElement(parent, func(child Node) bool {
		if child == element {
			index = i
			return false
		}
		i++
		return true
	})
	return index
}

// ClassNames splits the "class" attribute of element on whitespace.
func ClassNames(a Adapter, element Node) []string {
	if cl, ok := a.(ClassLister); ok {
		return cl.ClassNames(element)
	}
	class, ok := a.Attribute(element, "class", nil, CaseSensitive)
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

// ID returns the "id" attribute of element.
func ID(a Adapter, element Node) (string, bool) {
	if ig, ok := a.(IDGetter); ok {
		return ig.ID(element)
	}
	return a.Attribute(element, "id", nil, CaseSensitive)
}

// EachRecursiveElement calls yield for every descendant element of element in
// pre-order until yield returns false. element itself is not visited.
func EachRecursiveElement(a Adapter, element Node, yield func(Node) bool) {
	if rw, ok := a.(RecursiveWalker); ok {
		rw.EachRecursiveElement(element, yield)
		return
	}
	stack := pushChildren(a, nil, element)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !yield(n) {
			return
		}
		stack = pushChildren(a, stack, n)
	}
}

// pushChildren appends the children of element to stack in reverse order so
// the first child is popped first.
func pushChildren(a Adapter, stack []Node, element Node) []Node {
	mark := len(stack)
	a.EachChildElement(element, func(child Node) bool {
		stack = append(stack, child)
		return true
	})
	for i, j := mark, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}
