package compiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/query"
)

// CompileFunc compiles one occurrence of a pseudo-class into a query that
// tests the node and then runs cont.
type CompileFunc func(c *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error)

// PseudoClassDef describes a pseudo-class.
type PseudoClassDef struct {
	// Name is the pseudo-class name without the colon. Lookup ignores ASCII
	// case.
	Name string
	// Kind tells the parser how to read the parenthesized argument.
	Kind ast.ArgumentKind
	// Compile builds the query.
	Compile CompileFunc
}

// Registry maps pseudo-class names to definitions. Register everything before
// sharing a registry between goroutines; lookups are read-only.
type Registry struct {
	defs map[string]PseudoClassDef
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...PseudoClassDef) *Registry {
	r := &Registry{defs: make(map[string]PseudoClassDef, len(defs))}
	r.Register(defs...)
	return r
}

// DefaultRegistry returns a new registry with the built-in pseudo-classes.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtins()...)
}

// Register adds defs, replacing any definition with the same name.
func (r *Registry) Register(defs ...PseudoClassDef) {
	for _, def := range defs {
		r.defs[strings.ToLower(def.Name)] = def
	}
}

// Lookup finds the definition for name.
func (r *Registry) Lookup(name string) (PseudoClassDef, bool) {
	def, ok := r.defs[strings.ToLower(name)]
	return def, ok
}

// ArgumentKind implements parser.ArgumentKinds.
func (r *Registry) ArgumentKind(name string) (ast.ArgumentKind, bool) {
	def, ok := r.Lookup(name)
	return def.Kind, ok
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	return &Registry{defs: maps.Clone(r.defs)}
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.defs))
}

// Builtins returns the built-in pseudo-class definitions.
func Builtins() []PseudoClassDef {
	return []PseudoClassDef{
		noArgument("first-child", func(cont query.Query) query.Query {
			return &query.NthChildQuery{Cont: cont, A: 0, B: 1}
		}),
		noArgument("last-child", func(cont query.Query) query.Query {
			return &query.NthLastChildQuery{Cont: cont, A: 0, B: 1}
		}),
		noArgument("only-child", func(cont query.Query) query.Query {
			return &query.OnlyChildQuery{Cont: cont}
		}),
		nthChild("nth-child", false),
		nthChild("nth-last-child", true),
		noArgument("first-of-type", func(cont query.Query) query.Query {
			return &query.NthOfTypeQuery{Cont: cont, A: 0, B: 1}
		}),
		noArgument("last-of-type", func(cont query.Query) query.Query {
			return &query.NthLastOfTypeQuery{Cont: cont, A: 0, B: 1}
		}),
		noArgument("only-of-type", func(cont query.Query) query.Query {
			return &query.OnlyOfTypeQuery{Cont: cont}
		}),
		nthOfType("nth-of-type", false),
		nthOfType("nth-last-of-type", true),
		noArgument("root", func(cont query.Query) query.Query {
			return &query.RootQuery{Cont: cont}
		}),
		nested("is", false),
		nested("where", false),
		nested("not", true),
		noArgument("scope", func(cont query.Query) query.Query {
			return &query.ScopeQuery{Cont: cont}
		}),
		has(),
		noArgument("empty", func(cont query.Query) query.Query {
			return &query.EmptyQuery{Cont: cont}
		}),
		noArgument("checked", func(cont query.Query) query.Query {
			return &query.CheckedQuery{Cont: cont}
		}),
		noArgument("disabled", func(cont query.Query) query.Query {
			return &query.DisabledQuery{Cont: cont}
		}),
	}
}

func noArgument(name string, build func(cont query.Query) query.Query) PseudoClassDef {
	return PseudoClassDef{
		Name: name,
		Kind: ast.ArgumentNone,
		Compile: func(_ *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument != nil {
				return nil, argumentError(name, "must not take an argument")
			}
			return build(cont), nil
		},
	}
}

func nthChild(name string, last bool) PseudoClassDef {
	return PseudoClassDef{
		Name: name,
		Kind: ast.ArgumentNthOfSelectorList,
		Compile: func(c *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument == nil {
				return nil, argumentError(name, "must take an argument")
			}
			arg, ok := pc.Argument.(ast.NthOfSelectorList)
			if !ok {
				return nil, argumentError(name, "argument must be An+B, got %T", pc.Argument)
			}
			a, b := c.NthValue(arg.Nth)

			if arg.SelectorList == nil {
				if last {
					return &query.NthLastChildQuery{Cont: cont, A: a, B: b}, nil
				}
				return &query.NthChildQuery{Cont: cont, A: a, B: b}, nil
			}

			if hasComplexSelector(*arg.SelectorList) {
				return nil, argumentError(name, "argument must not take a complex selector")
			}
			of, err := c.Compile(*arg.SelectorList)
			if err != nil {
				return nil, err
			}
			if last {
				return &query.NthLastChildOfQuery{ID: c.NewID(), Cont: cont, A: a, B: b, Of: of}, nil
			}
			return &query.NthChildOfQuery{ID: c.NewID(), Cont: cont, A: a, B: b, Of: of}, nil
		},
	}
}

func nthOfType(name string, last bool) PseudoClassDef {
	return PseudoClassDef{
		Name: name,
		Kind: ast.ArgumentNth,
		Compile: func(c *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument == nil {
				return nil, argumentError(name, "must take an argument")
			}
			nth, ok := pc.Argument.(ast.NthValue)
			if !ok {
				return nil, argumentError(name, "argument must be An+B, got %T", pc.Argument)
			}
			a, b := c.NthValue(nth)
			if last {
				return &query.NthLastOfTypeQuery{Cont: cont, A: a, B: b}, nil
			}
			return &query.NthOfTypeQuery{Cont: cont, A: a, B: b}, nil
		},
	}
}

// nested builds :is, :where and (negated) :not.
func nested(name string, negate bool) PseudoClassDef {
	return PseudoClassDef{
		Name: name,
		Kind: ast.ArgumentSelectorList,
		Compile: func(c *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument == nil {
				return nil, argumentError(name, "must take an argument")
			}
			list, ok := pc.Argument.(ast.SelectorList)
			if !ok {
				return nil, argumentError(name, "argument must be a selector list, got %T", pc.Argument)
			}
			if hasComplexSelector(list) {
				return nil, argumentError(name, "argument must not take a complex selector")
			}
			inner, err := c.Compile(list)
			if err != nil {
				return nil, err
			}
			if negate {
				return &query.NotQuery{Cont: cont, Inner: inner}, nil
			}
			return &query.NestedQuery{Cont: cont, Inner: inner}, nil
		},
	}
}

// has rewrites each relative selector "<combinator> S" as
// ":scope <combinator> S" and compiles the resulting list.
func has() PseudoClassDef {
	return PseudoClassDef{
		Name: "has",
		Kind: ast.ArgumentRelativeSelectorList,
		Compile: func(c *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument == nil {
				return nil, argumentError("has", "must take an argument")
			}
			rel, ok := pc.Argument.(ast.RelativeSelectorList)
			if !ok {
				return nil, argumentError("has", "argument must be a relative selector list, got %T", pc.Argument)
			}

			scope := ast.CompoundSelector{
				Subclasses: []ast.SubclassSelector{ast.PseudoClass{Name: "scope"}},
			}
			needsParent := false
			selectors := make([]ast.Selector, 0, len(rel.Selectors))
			for _, rs := range rel.Selectors {
				if rs.Combinator == ast.Sibling || rs.Combinator == ast.Adjacent {
					needsParent = true
				}
				selectors = append(selectors, ast.ComplexSelector{
					Left:       scope,
					Combinator: rs.Combinator,
					Right:      rs.Right,
				})
			}

			inner, err := c.Compile(ast.SelectorList{Selectors: selectors})
			if err != nil {
				return nil, err
			}
			return &query.HasQuery{Cont: cont, Inner: inner, NeedsParent: needsParent}, nil
		},
	}
}

// PredicateTest is the test behind a Predicate. It is only called for
// elements.
type PredicateTest func(ctx *query.Context, element adapter.Node) bool

// Predicate defines an argument-less pseudo-class that matches elements
// passing test.
func Predicate(name string, test PredicateTest) PseudoClassDef {
	return noArgument(name, func(cont query.Query) query.Query {
		return &query.PredicateQuery{
			Cont: cont,
			Test: func(node adapter.Node, ctx *query.Context) bool {
				return ctx.Adapter().IsElement(node) && test(ctx, node)
			},
		}
	})
}

// ValueTest is the test behind a ValuePredicate. values holds the resolved
// strings of the argument; substitutions missing from the context are left
// out.
type ValueTest func(ctx *query.Context, element adapter.Node, values []string) bool

// ValuePredicate defines a pseudo-class that takes a value list, such as
// ":lang(en, fr)".
func ValuePredicate(name string, test ValueTest) PseudoClassDef {
	return PseudoClassDef{
		Name: name,
		Kind: ast.ArgumentNone,
		Compile: func(_ *Compiler, cont query.Query, pc ast.PseudoClass) (query.Query, error) {
			if pc.Argument == nil {
				return nil, argumentError(name, "must take an argument")
			}
			list, ok := pc.Argument.(ast.ValueList)
			if !ok {
				return nil, argumentError(name, "argument must be a value list, got %T", pc.Argument)
			}
			return &query.PredicateQuery{
				Cont: cont,
				Test: func(node adapter.Node, ctx *query.Context) bool {
					if !ctx.Adapter().IsElement(node) {
						return false
					}
					values := make([]string, 0, len(list.Values))
					for _, v := range list.Values {
						if s, ok := query.ResolveValue(v, ctx); ok {
							values = append(values, s)
						}
					}
					return test(ctx, node, values)
				},
			}, nil
		},
	}
}
