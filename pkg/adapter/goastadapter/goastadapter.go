// Package goastadapter lets selectors query Go syntax trees from go/ast.
//
// Each ast.Node is wrapped in a *Node that remembers its parent and
// position. The tag name is the node's type name ("FuncDecl", "CallExpr",
// "Ident", ...). Attributes are the scalar fields of the node, named by the
// field name with a lowercase first letter: strings, booleans, integers and
// token values render as text, *ast.Ident fields render as the identifier
// and other expressions render as Go source. So
//
//	CallExpr[fun="fmt.Println"]
//	FuncDecl > Ident[name^=Test]
//
// work as expected.
package goastadapter

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/goselect/pkg/adapter"
)

// Node wraps an ast.Node with its position in the tree.
type Node struct {
	node   ast.Node
	parent *Node
	doc    *Node
	index  int

	once     sync.Once
	children []*Node
}

// NewDocument wraps root. The returned node is both the document node and
// the root element.
func NewDocument(root ast.Node) *Node {
	n := &Node{node: root}
	n.doc = n
	return n
}

// AST returns the wrapped node.
func (n *Node) AST() ast.Node { return n.node }

// Parent returns the parent node, or nil for the document.
func (n *Node) Parent() *Node { return n.parent }

// Type returns the type name of the wrapped node.
func (n *Node) Type() string {
	t := reflect.TypeOf(n.node)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Children returns the direct child nodes in source order. They are built
// once, on first use.
func (n *Node) Children() []*Node {
	n.once.Do(func() {
		ast.Inspect(n.node, func(c ast.Node) bool {
			if c == nil || c == n.node {
				return c != nil
			}
			n.children = append(n.children, &Node{
				node:   c,
				parent: n,
				doc:    n.doc,
				index:  len(n.children),
			})
			return false
		})
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
	_ adapter.Normalizer     = Adapter{}
	_ adapter.RootChecker    = Adapter{}
)

func wrapped(n adapter.Node) *Node {
	w, _ := n.(*Node)
	return w
}

// Normalize wraps a bare ast.Node as a new document.
func (Adapter) Normalize(n adapter.Node) adapter.Node {
	if a, ok := n.(ast.Node); ok {
		return NewDocument(a)
	}
	return n
}

// IsElement implements adapter.Adapter.
func (Adapter) IsElement(n adapter.Node) bool {
	return wrapped(n) != nil
}

// TagName implements adapter.Adapter.
func (Adapter) TagName(el adapter.Node) string {
	return wrapped(el).Type()
}

// Namespace always returns "".
func (Adapter) Namespace(adapter.Node) string {
	return ""
}

// Attribute implements adapter.Adapter. Namespaced lookups never match.
func (Adapter) Attribute(el adapter.Node, name string, namespace *string, mode adapter.CaseMode) (string, bool) {
	if namespace != nil && *namespace != "" {
		return "", false
	}
	v := reflect.ValueOf(wrapped(el).node)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", false
	}
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || !adapter.EqualName(attributeName(f.Name), name, mode) {
			continue
		}
		return render(v.Field(i))
	}
	return "", false
}

func attributeName(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	return string(unicode.ToLower(r)) + field[size:]
}

var (
	tokenType = reflect.TypeOf(token.ILLEGAL)
	posType   = reflect.TypeOf(token.NoPos)
	exprType  = reflect.TypeOf((*ast.Expr)(nil)).Elem()
)

// render formats a scalar field. Positions, lists and nested statements are
// not attributes.
func render(v reflect.Value) (string, bool) {
	switch v.Type() {
	case posType:
		return "", false
	case tokenType:
		return v.Interface().(token.Token).String(), true
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return fmt.Sprint(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprint(v.Int()), true
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() || !v.Type().Implements(exprType) {
			return "", false
		}
		expr := v.Interface().(ast.Expr)
		if id, ok := expr.(*ast.Ident); ok {
			return id.Name, true
		}
		return types.ExprString(expr), true
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

// IsRoot matches the document node only, since it is also the root element.
func (Adapter) IsRoot(el adapter.Node) bool {
	w := wrapped(el)
	return w != nil && w.parent == nil
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

// Source returns a short description of n for printing: the type name and,
// when the node is an expression, its Go source.
func Source(n *Node) string {
	if expr, ok := n.node.(ast.Expr); ok {
		return n.Type() + " " + strings.TrimSpace(types.ExprString(expr))
	}
	return n.Type()
}
