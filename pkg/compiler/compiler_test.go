package compiler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/parser"
	"github.com/sandrolain/goselect/pkg/query"
)

func compile(t *testing.T, source string) (query.Query, error) {
	t.Helper()
	registry := compiler.DefaultRegistry()
	list, err := parser.Parse(source, registry)
	require.NoError(t, err, "Parse(%q)", source)
	return compiler.Compile(list, registry)
}

func mustCompile(t *testing.T, source string) query.Query {
	t.Helper()
	q, err := compile(t, source)
	require.NoError(t, err, "Compile(%q)", source)
	return q
}

// ── Query shapes ───────────────────────────────────────────────────────────

func TestCompile_RightmostCompoundIsOutermost(t *testing.T) {
	q := mustCompile(t, "a > b")

	b, ok := q.(*query.TagNameTypeQuery)
	require.True(t, ok, "got %T", q)
	assert.Equal(t, "b", b.TagName)

	child, ok := b.Cont.(*query.ChildQuery)
	require.True(t, ok, "got %T", b.Cont)

	a, ok := child.Cont.(*query.TagNameTypeQuery)
	require.True(t, ok, "got %T", child.Cont)
	assert.Equal(t, "a", a.TagName)
	assert.Equal(t, query.True, a.Cont)
}

func TestCompile_CompoundFoldsLeftToRight(t *testing.T) {
	q := mustCompile(t, "p#x.y")

	// Each subclass wraps the query before it.
	class, ok := q.(*query.ClassNameQuery)
	require.True(t, ok, "got %T", q)
	assert.Equal(t, "y", class.Name)

	id, ok := class.Cont.(*query.IDQuery)
	require.True(t, ok, "got %T", class.Cont)
	assert.Equal(t, "x", id.Name)

	_, ok = id.Cont.(*query.TagNameTypeQuery)
	assert.True(t, ok, "got %T", id.Cont)
}

func TestCompile_SelectorListBecomesOneOf(t *testing.T) {
	q := mustCompile(t, "a, b, c")
	one, ok := q.(*query.OneOfQuery)
	require.True(t, ok, "got %T", q)
	assert.Len(t, one.Alternatives, 3)

	_, ok = mustCompile(t, "a").(*query.TagNameTypeQuery)
	assert.True(t, ok)
}

func TestCompile_Namespaces(t *testing.T) {
	tag := mustCompile(t, "svg|rect").(*query.TagNameTypeQuery)
	require.NotNil(t, tag.Namespace)
	assert.Equal(t, "svg", *tag.Namespace)

	assert.Nil(t, mustCompile(t, "*|rect").(*query.TagNameTypeQuery).Namespace)
	assert.Nil(t, mustCompile(t, "rect").(*query.TagNameTypeQuery).Namespace)

	attr := mustCompile(t, "[xlink|href]").(*query.AttributePresenceQuery)
	require.NotNil(t, attr.Namespace)
	assert.Equal(t, "xlink", *attr.Namespace)
}

func TestCompile_DescendantQueriesGetDistinctIDs(t *testing.T) {
	q := mustCompile(t, "a b c")
	outer := q.(*query.TagNameTypeQuery).Cont.(*query.DescendantQuery)
	inner := outer.Cont.(*query.TagNameTypeQuery).Cont.(*query.DescendantQuery)
	assert.NotEqual(t, outer.ID, inner.ID)
}

func TestCompile_NthValues(t *testing.T) {
	tests := []struct {
		source string
		a, b   int
	}{
		{":nth-child(odd)", 2, 1},
		{":nth-child(even)", 2, 0},
		{":nth-child(3n-1)", 3, -1},
		{":nth-child(-n+3)", -1, 3},
		{":nth-child(5)", 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			q, ok := mustCompile(t, tt.source).(*query.NthChildQuery)
			require.True(t, ok)
			assert.Equal(t, tt.a, q.A)
			assert.Equal(t, tt.b, q.B)
		})
	}
}

func TestCompile_PseudoClassShapes(t *testing.T) {
	tests := []struct {
		source string
		want   query.Query
	}{
		{":first-child", &query.NthChildQuery{}},
		{":last-child", &query.NthLastChildQuery{}},
		{":only-child", &query.OnlyChildQuery{}},
		{":nth-last-child(2)", &query.NthLastChildQuery{}},
		{":nth-child(2 of .a)", &query.NthChildOfQuery{}},
		{":nth-last-child(2 of .a)", &query.NthLastChildOfQuery{}},
		{":first-of-type", &query.NthOfTypeQuery{}},
		{":last-of-type", &query.NthLastOfTypeQuery{}},
		{":only-of-type", &query.OnlyOfTypeQuery{}},
		{":nth-of-type(2n)", &query.NthOfTypeQuery{}},
		{":nth-last-of-type(2n)", &query.NthLastOfTypeQuery{}},
		{":root", &query.RootQuery{}},
		{":is(a, b)", &query.NestedQuery{}},
		{":where(a)", &query.NestedQuery{}},
		{":not(a)", &query.NotQuery{}},
		{":scope", &query.ScopeQuery{}},
		{":has(> a)", &query.HasQuery{}},
		{":empty", &query.EmptyQuery{}},
		{":checked", &query.CheckedQuery{}},
		{":disabled", &query.DisabledQuery{}},
		{":FIRST-CHILD", &query.NthChildQuery{}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.IsType(t, tt.want, mustCompile(t, tt.source))
		})
	}
}

func TestCompile_HasNeedsParent(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{":has(a)", false},
		{":has(> a)", false},
		{":has(+ a)", true},
		{":has(~ a)", true},
		{":has(> a, ~ b)", true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			q := mustCompile(t, tt.source).(*query.HasQuery)
			assert.Equal(t, tt.want, q.NeedsParent)
		})
	}
}

// ── Errors ─────────────────────────────────────────────────────────────────

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		source string
		code   ast.ErrorCode
	}{
		{":unknown", ast.ErrUndefinedPseudoClass},
		{":first-child(1)", ast.ErrInvalidArgument},
		{":root(x)", ast.ErrInvalidArgument},
		{":nth-child", ast.ErrInvalidArgument},
		{":nth-of-type", ast.ErrInvalidArgument},
		{":is", ast.ErrInvalidArgument},
		{":not", ast.ErrInvalidArgument},
		{":has", ast.ErrInvalidArgument},
		{":is(a b)", ast.ErrInvalidArgument},
		{":where(a > b)", ast.ErrInvalidArgument},
		{":not(a + b)", ast.ErrInvalidArgument},
		{":nth-child(2 of a b)", ast.ErrInvalidArgument},
		{":not(:unknown)", ast.ErrUndefinedPseudoClass},
		{"a::before", ast.ErrPseudoElement},
		{"a || b", ast.ErrColumnCombinator},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := compile(t, tt.source)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ast.ErrCompile))

			var cerr *ast.CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.code, cerr.Code)
		})
	}
}

func TestCompile_ErrorMessages(t *testing.T) {
	_, err := compile(t, ":unknown")
	assert.EqualError(t, err, `C0201: undefined pseudo class ':unknown'`)

	_, err = compile(t, ":first-child(1)")
	assert.EqualError(t, err, `C0202: :first-child must not take an argument`)

	_, err = compile(t, ":not(a b)")
	assert.EqualError(t, err, `C0202: :not argument must not take a complex selector`)
}

func TestCompile_HasAllowsComplexSelectors(t *testing.T) {
	_, err := compile(t, ":has(> a b ~ c)")
	assert.NoError(t, err)
}

// ── Registry ───────────────────────────────────────────────────────────────

func TestRegistry_Builtins(t *testing.T) {
	r := compiler.DefaultRegistry()
	assert.Equal(t, []string{
		"checked", "disabled", "empty", "first-child", "first-of-type", "has", "is",
		"last-child", "last-of-type", "not", "nth-child", "nth-last-child",
		"nth-last-of-type", "nth-of-type", "only-child", "only-of-type", "root",
		"scope", "where",
	}, r.Names())

	kind, ok := r.ArgumentKind("NTH-CHILD")
	require.True(t, ok)
	assert.Equal(t, ast.ArgumentNthOfSelectorList, kind)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	base := compiler.DefaultRegistry()
	clone := base.Clone()
	clone.Register(compiler.Predicate("odd-one", func(*query.Context, adapter.Node) bool { return true }))

	_, ok := clone.Lookup("odd-one")
	assert.True(t, ok)
	_, ok = base.Lookup("odd-one")
	assert.False(t, ok)
}

func TestRegistry_ValuePredicateParsesValueList(t *testing.T) {
	var seen []string
	r := compiler.DefaultRegistry()
	r.Register(compiler.ValuePredicate("tagged", func(_ *query.Context, _ adapter.Node, values []string) bool {
		seen = values
		return true
	}))

	list, err := parser.Parse(`:tagged(a, "b c", $sub, 42)`, r)
	require.NoError(t, err)
	pc := list.Selectors[0].(ast.CompoundSelector).Subclasses[0].(ast.PseudoClass)
	assert.Equal(t, ast.ValueList{Values: []ast.Value{
		ast.Ident{Value: "a"},
		ast.String{Value: "b c"},
		ast.Substitution{Name: "sub"},
		ast.Bare{Value: "42"},
	}}, pc.Argument)

	_, err = compiler.Compile(list, r)
	require.NoError(t, err)
	assert.Nil(t, seen, "the test only runs at match time")
}
