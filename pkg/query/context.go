package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// Context is the state of one match call: the scope node, substitution
// values, options, the adapter and a cache. It is not safe for concurrent
// use; every call builds its own.
type Context struct {
	scope         adapter.Node
	substitutions map[string]string
	options       *Options
	adapter       adapter.Adapter

	// Cached descendant-combinator results keyed by (query, ancestor).
	descendants map[cacheKey]*deferredResult
	// Cached "of S" child subsequences keyed by (query, parent).
	children map[cacheKey][]adapter.Node
}

// cacheKey includes the scope, which :has rebases mid-evaluation.
type cacheKey struct {
	id    int
	node  adapter.Node
	scope adapter.Node
}

// deferredResult is shared by every ancestor visited during one descendant
// walk, so a later answer for a higher ancestor updates all of them.
type deferredResult struct {
	matched bool
}

// NewContext creates a context. opts may be nil for DefaultOptions.
func NewContext(a adapter.Adapter, scope adapter.Node, substitutions map[string]string, opts *Options) *Context {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	return &Context{
		scope:         scope,
		substitutions: substitutions,
		options:       opts,
		adapter:       a,
	}
}

// Scope returns the node :scope currently refers to.
func (c *Context) Scope() adapter.Node {
	return c.scope
}

// Adapter returns the tree adapter.
func (c *Context) Adapter() adapter.Adapter {
	return c.adapter
}

// Options returns the matching options.
func (c *Context) Options() *Options {
	return c.options
}

// Substitution resolves a "$name" value.
func (c *Context) Substitution(name string) (string, bool) {
	v, ok := c.substitutions[name]
	return v, ok
}

// Scoped runs fn with the scope set to node and restores the previous scope
// on every exit path.
func (c *Context) Scoped(node adapter.Node, fn func()) {
	prev := c.scope
	c.scope = node
	defer func() { c.scope = prev }()
	fn()
}

func (c *Context) descendantResult(id int, node adapter.Node) (*deferredResult, bool) {
	r, ok := c.descendants[cacheKey{id, node, c.scope}]
	return r, ok
}

func (c *Context) storeDescendantResult(id int, node adapter.Node, r *deferredResult) {
	if c.descendants == nil {
		c.descendants = make(map[cacheKey]*deferredResult)
	}
	c.descendants[cacheKey{id, node, c.scope}] = r
}

// matchingChildren returns the children of parent that match q, computing
// them once per (id, parent).
func (c *Context) matchingChildren(id int, parent adapter.Node, q Query) []adapter.Node {
	key := cacheKey{id, parent, c.scope}
	if matched, ok := c.children[key]; ok {
		return matched
	}
	var matched []adapter.Node
	c.adapter.EachChildElement(parent, func(child adapter.Node) bool {
		if q.Match(child, c) {
			matched = append(matched, child)
		}
		return true
	})
	if c.children == nil {
		c.children = make(map[cacheKey][]adapter.Node)
	}
	c.children[key] = matched
	return matched
}
