// Package jsonadapter lets selectors query JSON documents parsed with
// github.com/valyala/fastjson.
//
// Every JSON value is an element. Its tag name is the JSON type: "object",
// "array", "string", "number", "true", "false" or "null". Each element has
// up to three attributes:
//
//	key    the member name, for values inside an object
//	index  the 0-based position, for values inside an array
//	value  the text of a scalar (strings unquoted, numbers as written)
//
// The document node wraps the top-level value, so ":root" selects it.
//
//	object > number[key=price]
//	array > object:has(> string[key=status][value=active])
package jsonadapter

import (
	"strconv"
	"sync"

	"github.com/valyala/fastjson"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Node is a JSON value in a document.
type Node struct {
	value  *fastjson.Value
	key    string
	hasKey bool
	index  int // position among the parent's children
	parent *Node
	doc    *Node

	once     sync.Once
	children []*Node
}

// Parse parses data and returns the document node.
func Parse(data []byte) (*Node, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return NewDocument(v), nil
}

// ParseString parses s and returns the document node.
func ParseString(s string) (*Node, error) {
	return Parse([]byte(s))
}

// NewDocument wraps v. The value must not be reused by its parser while the
// document is in use.
func NewDocument(v *fastjson.Value) *Node {
	doc := &Node{}
	doc.doc = doc
	doc.children = []*Node{{value: v, parent: doc, doc: doc}}
	doc.once.Do(func() {})
	return doc
}

// Value returns the wrapped value, nil for the document node.
func (n *Node) Value() *fastjson.Value { return n.value }

// Key returns the member name of a value inside an object.
func (n *Node) Key() (string, bool) { return n.key, n.hasKey }

// Parent returns the parent node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the members or items of an object or array.
func (n *Node) Children() []*Node {
	n.once.Do(func() {
		switch n.value.Type() {
		case fastjson.TypeObject:
			o, _ := n.value.Object()
			o.Visit(func(key []byte, v *fastjson.Value) {
				n.children = append(n.children, &Node{
					value:  v,
					key:    string(key),
					hasKey: true,
					index:  len(n.children),
					parent: n,
					doc:    n.doc,
				})
			})
		case fastjson.TypeArray:
			items, _ := n.value.Array()
			for i, v := range items {
				n.children = append(n.children, &Node{value: v, index: i, parent: n, doc: n.doc})
			}
		}
	})
	return n.children
}

// Adapter implements adapter.Adapter over *Node values.
type Adapter struct{}

// Default is the shared adapter instance.
var Default = Adapter{}

var (
	_ adapter.Adapter        = Adapter{}
	_ adapter.ElementIndexer = Adapter{}
	_ adapter.EmptyChecker   = Adapter{}
	_ adapter.Normalizer     = Adapter{}
)

func wrapped(n adapter.Node) *Node {
	w, _ := n.(*Node)
	return w
}

// Normalize wraps a bare *fastjson.Value as a new document.
func (Adapter) Normalize(n adapter.Node) adapter.Node {
	if v, ok := n.(*fastjson.Value); ok && v != nil {
		return NewDocument(v)
	}
	return n
}

// IsElement implements adapter.Adapter.
func (Adapter) IsElement(n adapter.Node) bool {
	w := wrapped(n)
	return w != nil && w.value != nil
}

// TagName implements adapter.Adapter.
func (Adapter) TagName(el adapter.Node) string {
	return wrapped(el).value.Type().String()
}

// Namespace always returns "".
func (Adapter) Namespace(adapter.Node) string {
	return ""
}

// Attribute implements adapter.Adapter.
func (Adapter) Attribute(el adapter.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	if namespace != nil && *namespace != "" {
		return "", false
	}
	w := wrapped(el)
	switch {
	case adapter.EqualName(name, "key", mode):
		return w.key, w.hasKey
	case adapter.EqualName(name, "index", mode):
		if w.hasKey || w.parent == nil || w.parent.value == nil {
			return "", false
		}
		return strconv.Itoa(w.index), true
	case adapter.EqualName(name, "value", mode):
		return scalar(w.value)
	}
	return "", false
}

func scalar(v *fastjson.Value) (string, bool) {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes()), true
	case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse, fastjson.TypeNull:
		return v.String(), true
	}
	return "", false
}

// DocumentNode implements adapter.Adapter.
func (Adapter) DocumentNode(n adapter.Node) adapter.Node {
	if w := wrapped(n); w != nil {
		return w.doc
	}
	return nil
}

// ParentNode implements adapter.Adapter.
func (Adapter) ParentNode(el adapter.Node) adapter.Node {
	if w := wrapped(el); w != nil && w.parent != nil {
		return w.parent
	}
	return nil
}

// PreviousSiblingElement implements adapter.Adapter.
func (Adapter) PreviousSiblingElement(el adapter.Node) adapter.Node {
	w := wrapped(el)
	if w == nil || w.parent == nil || w.index == 0 {
		return nil
	}
	return w.parent.Children()[w.index-1]
}

// EachChildElement implements adapter.Adapter.
func (Adapter) EachChildElement(el adapter.Node, yield func(adapter.Node) bool) {
	w := wrapped(el)
	if w == nil {
		return
	}
	for _, c := range w.Children() {
		if !yield(c) {
			return
		}
	}
}

// ElementIndex implements adapter.ElementIndexer.
func (Adapter) ElementIndex(parent, el adapter.Node) int {
	w := wrapped(el)
	if w == nil || w.parent == nil || adapter.Node(w.parent) != parent {
		return -1
	}
	return w.index
}

// IsEmpty matches empty objects, empty arrays, empty strings and the other
// scalars, which never have children.
func (Adapter) IsEmpty(el adapter.Node) bool {
	v := wrapped(el).value
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		return o.Len() == 0
	case fastjson.TypeArray:
		items, _ := v.Array()
		return len(items) == 0
	case fastjson.TypeString:
		return len(v.GetStringBytes()) == 0
	}
	return true
}
