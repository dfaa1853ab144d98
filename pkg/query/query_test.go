package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goselect/pkg/adapter"
	at "github.com/sandrolain/goselect/pkg/adapter/adaptertest"
	"github.com/sandrolain/goselect/pkg/ast"
	"github.com/sandrolain/goselect/pkg/compiler"
	"github.com/sandrolain/goselect/pkg/parser"
	"github.com/sandrolain/goselect/pkg/query"
)

var a = at.Adapter{}

// page is a small document:
//
//	html
//	  body#body.page
//	    ul#list
//	      li#i1.odd   li#i2   li#i3.odd   li#i4   li#i5.odd
//	    div#d1.brothers lang=en
//	      p#p1   span#s1   p#p2 (empty)   span#s2
//	    div#d2 data-x="Foo-bar baz"
//	      input#c1 checked   input#c2 disabled   input#c3
func page() *at.Node {
	li := func(id string, class ...string) *at.Node {
		attrs := at.Attrs{"id", id}
		if len(class) > 0 {
			attrs = append(attrs, "class", class[0])
		}
		return at.E("li", attrs)
	}
	return at.Document(
		at.E("html",
			at.E("body", at.Attrs{"id", "body", "class", "page"},
				at.E("ul", at.Attrs{"id", "list"},
					li("i1", "odd"), li("i2"), li("i3", "odd"), li("i4"), li("i5", "odd"),
				),
				at.E("div", at.Attrs{"id", "d1", "class", "brothers", "lang", "en"},
					at.E("p", at.Attrs{"id", "p1"}, at.E("b", at.Attrs{"id", "b1"})),
					at.E("span", at.Attrs{"id", "s1"}),
					at.E("p", at.Attrs{"id", "p2"}),
					at.E("span", at.Attrs{"id", "s2"}),
				),
				at.E("div", at.Attrs{"id", "d2", "data-x", "Foo-bar baz"},
					at.E("input", at.Attrs{"id", "c1", "checked", ""}),
					at.E("input", at.Attrs{"id", "c2", "disabled", ""}),
					at.E("input", at.Attrs{"id", "c3"}),
				),
			),
		),
	)
}

func compile(t *testing.T, source string) query.Query {
	t.Helper()
	registry := compiler.DefaultRegistry()
	list, err := parser.Parse(source, registry)
	require.NoError(t, err, "Parse(%q)", source)
	q, err := compiler.Compile(list, registry)
	require.NoError(t, err, "Compile(%q)", source)
	return q
}

// selectIDs returns the ids of the elements under doc that match source,
// with :scope at scope (the document when nil).
func selectIDs(t *testing.T, doc, scope *at.Node, source string, opts *query.Options, subs map[string]string) []string {
	t.Helper()
	q := compile(t, source)
	var s adapter.Node = doc
	if scope != nil {
		s = scope
	}
	ctx := query.NewContext(a, s, subs, opts)

	ids := []string{}
	adapter.EachRecursiveElement(a, doc, func(n adapter.Node) bool {
		if q.Match(n, ctx) {
			ids = append(ids, n.(*at.Node).ID())
		}
		return true
	})
	return ids
}

func TestMatch(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		// Types, ids and classes.
		{"li", []string{"i1", "i2", "i3", "i4", "i5"}},
		{"#i2", []string{"i2"}},
		{"li.odd", []string{"i1", "i3", "i5"}},
		{"LI", []string{}},
		{"*|p", []string{"p1", "p2"}},
		{"|p", []string{"p1", "p2"}},

		// Combinators.
		{"ul > li#i1", []string{"i1"}},
		{"body li#i4", []string{"i4"}},
		{"#i1 + li", []string{"i2"}},
		{"#i3 ~ li", []string{"i4", "i5"}},
		{"div p b", []string{"b1"}},
		{"html > div", []string{}},
		{"#p1 ~ span", []string{"s1", "s2"}},
		{"p + span", []string{"s1", "s2"}},

		// Nth.
		{"li:first-child", []string{"i1"}},
		{"li:last-child", []string{"i5"}},
		{"li:nth-child(2n+1)", []string{"i1", "i3", "i5"}},
		{"li:nth-child(odd)", []string{"i1", "i3", "i5"}},
		{"li:nth-child(even)", []string{"i2", "i4"}},
		{"li:nth-child(-n+2)", []string{"i1", "i2"}},
		{"li:nth-last-child(2)", []string{"i4"}},
		{"li:nth-child(0n+3)", []string{"i3"}},
		{"li:nth-child(0)", []string{}},
		{"li:nth-child(2 of .odd)", []string{"i3"}},
		{"li:nth-last-child(1 of .odd)", []string{"i5"}},
		{"#d1 > :nth-of-type(2)", []string{"p2", "s2"}},
		{"#d1 > :nth-last-of-type(1)", []string{"p2", "s2"}},
		{"#d1 > :first-of-type", []string{"p1", "s1"}},
		{"b:only-child", []string{"b1"}},
		{"#d1 :only-of-type", []string{"b1"}},

		// Logical.
		{":is(#i1, #i2)", []string{"i1", "i2"}},
		{":where(span, b)", []string{"b1", "s1", "s2"}},
		{"li:not(.odd)", []string{"i2", "i4"}},
		{"div:has(> p)", []string{"d1"}},
		{"div:has(b)", []string{"d1"}},
		{"p:has(+ span)", []string{"p1", "p2"}},
		{"li:has(~ #i5)", []string{"i1", "i2", "i3", "i4"}},
		{"li:has(~ li)", []string{"i1", "i2", "i3", "i4"}},
		{"p:has(p)", []string{}},

		// Other pseudo-classes.
		{":root", []string{""}},
		{"p:empty", []string{"p2"}},
		{":checked", []string{"c1"}},
		{":disabled", []string{"c2"}},
		// The document is not an element, so neither it nor a child step onto
		// it can match.
		{":scope", []string{}},
		{":scope > html", []string{}},
	}

	doc := page()
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, selectIDs(t, doc, nil, tt.source, nil, nil))
		})
	}
}

func TestMatch_Attributes(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"[lang]", []string{"d1"}},
		{"[data-x='Foo-bar baz']", []string{"d2"}},
		{"[data-x~=baz]", []string{"d2"}},
		{"[data-x~=Foo]", []string{}},
		{"[data-x|=Foo]", []string{"d2"}},
		{"[data-x^=Foo]", []string{"d2"}},
		{"[data-x$=baz]", []string{"d2"}},
		{"[data-x*=bar]", []string{"d2"}},
		{"[data-x^=foo]", []string{}},
		{"[data-x^=foo i]", []string{"d2"}},
		{"[data-x^=foo s]", []string{}},

		// Empty values never match the substring matchers.
		{"[lang^='']", []string{}},
		{"[lang$='']", []string{}},
		{"[lang*='']", []string{}},
		{"[lang='']", []string{}},
		{"[checked='']", []string{"c1"}},

		// Class attribute and class selector agree.
		{"div.brothers", []string{"d1"}},
		{"div[class~=brothers]", []string{"d1"}},
	}

	doc := page()
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, selectIDs(t, doc, nil, tt.source, nil, nil))
		})
	}
}

func TestMatch_Substitutions(t *testing.T) {
	doc := page()
	subs := map[string]string{"id": "i3", "lang": "EN"}

	assert.Equal(t, []string{"i3"}, selectIDs(t, doc, nil, "[id=$id]", nil, subs))
	assert.Equal(t, []string{"d1"}, selectIDs(t, doc, nil, "[lang=$lang i]", nil, subs))
	// An undefined substitution matches nothing, even under :not.
	assert.Equal(t, []string{}, selectIDs(t, doc, nil, "[id=$missing]", nil, subs))
	assert.Len(t, selectIDs(t, doc, nil, "li:not([id=$missing])", nil, subs), 5)
}

func TestMatch_Options(t *testing.T) {
	doc := page()

	html := query.HTMLOptions()
	assert.Equal(t, []string{"i1"}, selectIDs(t, doc, nil, "LI#i1", &html, nil))
	assert.Equal(t, []string{"d1"}, selectIDs(t, doc, nil, "[LANG]", &html, nil))
	// lang is on the HTML list of case-sensitive attribute values.
	assert.Equal(t, []string{}, selectIDs(t, doc, nil, "[lang=EN i]", &html, nil))
	assert.Equal(t, []string{"d1"}, selectIDs(t, doc, nil, "[lang=EN i]", nil, nil))

	opts := query.DefaultOptions()
	opts.CheckedElements = query.NewNodeSet(doc.Find("c3"))
	opts.DisabledElements = query.NewNodeSet(doc.Find("c1"))
	assert.Equal(t, []string{"c1", "c3"}, selectIDs(t, doc, nil, ":checked", &opts, nil))
	assert.Equal(t, []string{"c1", "c2"}, selectIDs(t, doc, nil, ":disabled", &opts, nil))
}

func TestMatch_Scope(t *testing.T) {
	doc := page()
	d1 := doc.Find("d1")

	assert.Equal(t, []string{"p1", "s1", "p2", "s2"}, selectIDs(t, doc, d1, ":scope > *", nil, nil))
	assert.Equal(t, []string{"d1"}, selectIDs(t, doc, d1, ":scope", nil, nil))
	// :has rebases :scope and restores it afterwards.
	assert.Equal(t, []string{"d1"}, selectIDs(t, doc, d1, ":scope:has(> p)", nil, nil))
}

func TestNthMatch(t *testing.T) {
	tests := []struct {
		a, b, index int
		want        bool
	}{
		{0, 3, 3, true},
		{0, 3, 4, false},
		{2, 1, 1, true},
		{2, 1, 2, false},
		{2, 1, 5, true},
		{-1, 3, 1, true},
		{-1, 3, 3, true},
		{-1, 3, 4, false},
		{3, -1, 2, true},
		{3, -1, 5, true},
		{3, -1, 3, false},
		{1, 0, 7, true},
		{-2, 0, 2, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, query.NthMatch(tt.a, tt.b, tt.index), "NthMatch(%d, %d, %d)", tt.a, tt.b, tt.index)
	}
}

// Every way of writing the same An+B selects the same elements.
func TestNthChild_EquivalentForms(t *testing.T) {
	doc := page()
	groups := [][]string{
		{"li:nth-child(odd)", "li:nth-child(2n+1)", "li:nth-child(2n-1)", "li:nth-child(2N + 1)"},
		{"li:nth-child(even)", "li:nth-child(2n)", "li:nth-child(2n+0)", "li:nth-child(2n-0)"},
		{"li:first-child", "li:nth-child(1)", "li:nth-child(0n+1)", "li:nth-last-child(5)"},
		{"li:nth-child(n)", "li:nth-child(+n)", "li:nth-child(n+0)", "li"},
	}
	for _, group := range groups {
		want := selectIDs(t, doc, nil, group[0], nil, nil)
		for _, source := range group[1:] {
			assert.Equal(t, want, selectIDs(t, doc, nil, source, nil, nil), "%s vs %s", group[0], source)
		}
	}
}

// counting records how often the continuation runs.
type counting struct {
	calls int
	match func(adapter.Node) bool
}

func (c *counting) Match(node adapter.Node, _ *query.Context) bool {
	c.calls++
	return c.match(node)
}

func TestDescendant_CachesPerAncestor(t *testing.T) {
	doc := page()
	inner := &counting{match: func(adapter.Node) bool { return false }}
	q := &query.DescendantQuery{ID: 1, Cont: inner}
	ctx := query.NewContext(a, doc, nil, nil)

	assert.False(t, q.Match(doc.Find("i1"), ctx))
	// ul, body, html, document.
	assert.Equal(t, 4, inner.calls)

	assert.False(t, q.Match(doc.Find("i2"), ctx))
	assert.Equal(t, 4, inner.calls, "the parent is cached")

	// A fresh context starts over.
	assert.False(t, q.Match(doc.Find("i2"), query.NewContext(a, doc, nil, nil)))
	assert.Equal(t, 8, inner.calls)
}

func TestDescendant_SharedResultUpdatesWalk(t *testing.T) {
	doc := page()
	body := doc.Find("body")
	inner := &counting{match: func(n adapter.Node) bool { return n == adapter.Node(body) }}
	q := &query.DescendantQuery{ID: 1, Cont: inner}
	ctx := query.NewContext(a, doc, nil, nil)

	require.True(t, q.Match(doc.Find("b1"), ctx))
	// p1, d1, body.
	assert.Equal(t, 3, inner.calls)

	// p1 and d1 were recorded as misses during the walk but now share the
	// answer found at body.
	assert.True(t, q.Match(doc.Find("s1"), ctx))
	assert.True(t, q.Match(doc.Find("p2"), ctx))
	assert.Equal(t, 3, inner.calls)
}

func TestNthChildOf_CachesPerParent(t *testing.T) {
	doc := page()
	of := &counting{match: func(n adapter.Node) bool { return n.(*at.Node).ID() != "i2" }}
	q := &query.NthChildOfQuery{ID: 1, Cont: query.True, A: 0, B: 2, Of: of}
	ctx := query.NewContext(a, doc, nil, nil)

	assert.False(t, q.Match(doc.Find("i1"), ctx))
	assert.False(t, q.Match(doc.Find("i2"), ctx))
	assert.True(t, q.Match(doc.Find("i3"), ctx))
	assert.Equal(t, 5, of.calls, "children are filtered once per parent")
}

func TestContext(t *testing.T) {
	doc := page()
	d1 := doc.Find("d1")
	ctx := query.NewContext(a, doc, map[string]string{"x": "1"}, nil)

	assert.Equal(t, adapter.Node(doc), ctx.Scope())
	assert.Equal(t, adapter.CaseSensitive, ctx.Options().TagNameCase)
	assert.Equal(t, adapter.Adapter(a), ctx.Adapter())

	v, ok := ctx.Substitution("x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = ctx.Substitution("y")
	assert.False(t, ok)

	ctx.Scoped(d1, func() {
		assert.Equal(t, adapter.Node(d1), ctx.Scope())
	})
	assert.Equal(t, adapter.Node(doc), ctx.Scope())

	assert.Panics(t, func() {
		ctx.Scoped(d1, func() { panic("boom") })
	})
	assert.Equal(t, adapter.Node(doc), ctx.Scope(), "scope restored after a panic")
}

func TestResolveValue(t *testing.T) {
	ctx := query.NewContext(a, nil, map[string]string{"v": "sub"}, nil)
	tests := []struct {
		value ast.Value
		want  string
		ok    bool
	}{
		{ast.Ident{Value: "id"}, "id", true},
		{ast.String{Value: "a b"}, "a b", true},
		{ast.Bare{Value: "1.5"}, "1.5", true},
		{ast.Substitution{Name: "v"}, "sub", true},
		{ast.Substitution{Name: "w"}, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := query.ResolveValue(tt.value, ctx)
		assert.Equal(t, tt.ok, ok, "%#v", tt.value)
		assert.Equal(t, tt.want, got, "%#v", tt.value)
	}
}

func TestStringSet(t *testing.T) {
	s := query.NewStringSet("Type", "lang")
	assert.True(t, s.Has("type"))
	assert.True(t, s.Has("LANG"))
	assert.False(t, s.Has("rel"))

	var empty query.StringSet
	assert.False(t, empty.Has("type"))
}
