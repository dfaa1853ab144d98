// Package compiler turns a parsed selector into a query chain.
//
// Complex selectors compile right to left. The walk starts from query.True,
// compiles the leftmost compound against it, wraps the result in the
// combinator query that follows, and repeats, so the rightmost compound ends
// up outermost and is tested first. A compound folds the same way: the type
// selector wraps the continuation, each subclass wraps the query before it,
// so the last subclass is tested first and the type selector last.
//
// Pseudo-classes are looked up in a Registry by ASCII-lowercased name. The
// registry also tells the parser how each pseudo-class argument is read.
package compiler

import (
	"fmt"
	"strings"

	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/query"
)

// Compiler compiles selector lists against a registry. A Compiler hands out
// query ids and is not safe for concurrent use; compiled queries are.
type Compiler struct {
	registry *Registry
	nextID   int
}

// New creates a compiler. A nil registry means DefaultRegistry().
func New(registry *Registry) *Compiler {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Compiler{registry: registry}
}

// Compile compiles list with a fresh Compiler.
func Compile(list ast.SelectorList, registry *Registry) (query.Query, error) {
	return New(registry).Compile(list)
}

// Compile compiles a selector list. Several alternatives become a
// query.OneOfQuery.
func (c *Compiler) Compile(list ast.SelectorList) (query.Query, error) {
	queries := make([]query.Query, 0, len(list.Selectors))
	for _, sel := range list.Selectors {
		q, err := c.compileComplexSelector(sel)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if len(queries) == 1 {
		return queries[0], nil
	}
	return &query.OneOfQuery{Alternatives: queries}, nil
}

// NewID returns an id no other query from this compiler carries. Queries
// that cache per-call results key the cache with it.
func (c *Compiler) NewID() int {
	c.nextID++
	return c.nextID
}

// NthValue resolves odd, even and An+B to (a, b).
func (c *Compiler) NthValue(v ast.NthValue) (a, b int) {
	switch v := v.(type) {
	case ast.Odd:
		return 2, 1
	case ast.Even:
		return 2, 0
	case ast.Nth:
		return v.A, v.B
	}
	panic(fmt.Sprintf("compiler: unexpected nth value %T", v))
}

// Registry returns the registry the compiler resolves pseudo-classes in.
func (c *Compiler) Registry() *Registry {
	return c.registry
}

func (c *Compiler) compileComplexSelector(sel ast.Selector) (query.Query, error) {
	cont := query.True
	for {
		switch s := sel.(type) {
		case ast.CompoundSelector:
			return c.compileCompoundSelector(cont, s)
		case ast.ComplexSelector:
			q, err := c.compileCompoundSelector(cont, s.Left)
			if err != nil {
				return nil, err
			}
			if cont, err = c.compileCombinator(q, s.Combinator); err != nil {
				return nil, err
			}
			sel = s.Right
		default:
			panic(fmt.Sprintf("compiler: unexpected selector %T", sel))
		}
	}
}

func (c *Compiler) compileCompoundSelector(cont query.Query, sel ast.CompoundSelector) (query.Query, error) {
	if sel.Type != nil {
		cont = c.compileTypeSelector(cont, sel.Type)
	}

	for _, sub := range sel.Subclasses {
		var err error
		if cont, err = c.compileSubclassSelector(cont, sub); err != nil {
			return nil, err
		}
	}

	if len(sel.PseudoElements) > 0 {
		return nil, ast.NewCompileError(ast.ErrPseudoElement, "pseudo elements are not supported")
	}
	return cont, nil
}

// namespaceName maps a prefix to the namespace constraint passed to queries.
// nil means no constraint.
func namespaceName(ns ast.NamespacePrefix) *string {
	if n, ok := ns.(ast.Namespace); ok {
		name := n.Name
		return &name
	}
	return nil
}

func (c *Compiler) compileTypeSelector(cont query.Query, t ast.TypeSelector) query.Query {
	switch t := t.(type) {
	case ast.TagNameType:
		return &query.TagNameTypeQuery{Cont: cont, TagName: t.TagName, Namespace: namespaceName(t.Namespace)}
	case ast.UniversalType:
		return &query.UniversalTypeQuery{Cont: cont, Namespace: namespaceName(t.Namespace)}
	}
	panic(fmt.Sprintf("compiler: unexpected type selector %T", t))
}

func (c *Compiler) compileSubclassSelector(cont query.Query, sub ast.SubclassSelector) (query.Query, error) {
	switch s := sub.(type) {
	case ast.ID:
		return &query.IDQuery{Cont: cont, Name: s.Name}, nil

	case ast.ClassName:
		return &query.ClassNameQuery{Cont: cont, Name: s.Name}, nil

	case ast.Attribute:
		ns := namespaceName(s.Namespace)
		if s.Matcher == ast.MatchNone {
			return &query.AttributePresenceQuery{Cont: cont, Name: s.Name, Namespace: ns}, nil
		}
		return &query.AttributeMatcherQuery{
			Cont:      cont,
			Name:      s.Name,
			Namespace: ns,
			Matcher:   s.Matcher,
			Value:     s.Value,
			Modifier:  s.Modifier,
		}, nil

	case ast.PseudoClass:
		def, ok := c.registry.Lookup(s.Name)
		if !ok {
			return nil, ast.NewCompileError(ast.ErrUndefinedPseudoClass,
				fmt.Sprintf("undefined pseudo class ':%s'", s.Name))
		}
		return def.Compile(c, cont, s)
	}
	panic(fmt.Sprintf("compiler: unexpected subclass selector %T", sub))
}

func (c *Compiler) compileCombinator(cont query.Query, combinator ast.Combinator) (query.Query, error) {
	switch combinator {
	case ast.Descendant:
		return &query.DescendantQuery{ID: c.NewID(), Cont: cont}, nil
	case ast.Child:
		return &query.ChildQuery{Cont: cont}, nil
	case ast.Adjacent:
		return &query.AdjacentQuery{Cont: cont}, nil
	case ast.Sibling:
		return &query.SiblingQuery{Cont: cont}, nil
	case ast.Column:
		return nil, ast.NewCompileError(ast.ErrColumnCombinator, "column combinator is not supported")
	}
	panic(fmt.Sprintf("compiler: unexpected combinator %d", combinator))
}

// hasComplexSelector reports whether any alternative uses a combinator.
func hasComplexSelector(list ast.SelectorList) bool {
	for _, sel := range list.Selectors {
		if _, ok := sel.(ast.ComplexSelector); ok {
			return true
		}
	}
	return false
}

// argumentError builds the CompileError for a malformed pseudo-class
// argument.
func argumentError(name, format string, args ...any) error {
	return ast.NewCompileError(ast.ErrInvalidArgument,
		":"+strings.ToLower(name)+" "+fmt.Sprintf(format, args...))
}
