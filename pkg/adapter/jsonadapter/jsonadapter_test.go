package jsonadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"

	"github.com/sandrolain/goselect/pkg/adapter"
	"github.com/sandrolain/goselect/pkg/adapter/adaptertest"
	"github.com/sandrolain/goselect/pkg/adapter/jsonadapter"
)

const sample = `{
  "name": "shop",
  "open": true,
  "rating": 4.5,
  "owner": null,
  "tags": ["a", "", "c"],
  "items": [
    {"sku": "x1", "price": 10},
    {"sku": "x2", "price": 25, "extra": {}}
  ],
  "empty": []
}`

var a = jsonadapter.Default

func parse(t *testing.T) *jsonadapter.Node {
	t.Helper()
	doc, err := jsonadapter.ParseString(sample)
	require.NoError(t, err)
	return doc
}

// member returns the child of n with the given key.
func member(t *testing.T, n *jsonadapter.Node, key string) *jsonadapter.Node {
	t.Helper()
	for _, c := range n.Children() {
		if k, ok := c.Key(); ok && k == key {
			return c
		}
	}
	t.Fatalf("no member %q", key)
	return nil
}

func attr(n *jsonadapter.Node, name string) (string, bool) {
	return a.Attribute(n, name, nil, adapter.CaseSensitive)
}

func TestContract(t *testing.T) {
	require.NoError(t, adaptertest.Check(a, parse(t)))
}

func TestParseError(t *testing.T) {
	_, err := jsonadapter.ParseString(`{"a": }`)
	assert.Error(t, err)
	_, err = jsonadapter.Parse([]byte(`[1, 2`))
	assert.Error(t, err)
}

func TestDocument(t *testing.T) {
	doc := parse(t)
	assert.False(t, a.IsElement(doc))
	assert.Nil(t, doc.Value())

	children := doc.Children()
	require.Len(t, children, 1)
	top := children[0]
	assert.True(t, a.IsElement(top))
	assert.Equal(t, "object", a.TagName(top))
	assert.True(t, adapter.IsRoot(a, top))
	assert.Equal(t, adapter.Node(doc), a.DocumentNode(top))
	assert.Equal(t, adapter.Node(doc), a.ParentNode(top))
	assert.Nil(t, a.ParentNode(doc))

	_, ok := attr(top, "key")
	assert.False(t, ok)
	_, ok = attr(top, "index")
	assert.False(t, ok, "the top-level value is not an array item")
}

func TestTagNames(t *testing.T) {
	top := parse(t).Children()[0]
	want := map[string]string{
		"name":   "string",
		"open":   "true",
		"rating": "number",
		"owner":  "null",
		"tags":   "array",
		"items":  "array",
	}
	for key, tag := range want {
		assert.Equal(t, tag, a.TagName(member(t, top, key)), key)
	}
}

func TestAttributes(t *testing.T) {
	top := parse(t).Children()[0]

	name := member(t, top, "name")
	v, ok := attr(name, "key")
	assert.True(t, ok)
	assert.Equal(t, "name", v)
	v, ok = attr(name, "value")
	assert.True(t, ok)
	assert.Equal(t, "shop", v)
	_, ok = attr(name, "index")
	assert.False(t, ok, "object members have no index")

	v, _ = attr(member(t, top, "rating"), "value")
	assert.Equal(t, "4.5", v)
	v, _ = attr(member(t, top, "open"), "value")
	assert.Equal(t, "true", v)
	v, _ = attr(member(t, top, "owner"), "value")
	assert.Equal(t, "null", v)
	_, ok = attr(member(t, top, "tags"), "value")
	assert.False(t, ok, "containers have no value")

	tags := member(t, top, "tags").Children()
	require.Len(t, tags, 3)
	v, ok = attr(tags[2], "index")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = attr(tags[2], "key")
	assert.False(t, ok)

	v, ok = a.Attribute(name, "KEY", nil, adapter.CaseInsensitive)
	assert.True(t, ok)
	assert.Equal(t, "name", v)

	ns := "x"
	_, ok = a.Attribute(name, "key", &ns, adapter.CaseSensitive)
	assert.False(t, ok)
}

func TestSiblingsAndIndex(t *testing.T) {
	top := parse(t).Children()[0]
	items := member(t, top, "items")
	children := items.Children()
	require.Len(t, children, 2)

	assert.Equal(t, adapter.Node(children[0]), a.PreviousSiblingElement(children[1]))
	assert.Nil(t, a.PreviousSiblingElement(children[0]))
	assert.Equal(t, 1, a.ElementIndex(items, children[1]))
	assert.Equal(t, -1, a.ElementIndex(top, children[1]))
	assert.Equal(t, items, children[1].Parent())
}

func TestIsEmpty(t *testing.T) {
	top := parse(t).Children()[0]
	tags := member(t, top, "tags").Children()

	assert.False(t, a.IsEmpty(top))
	assert.True(t, a.IsEmpty(member(t, top, "empty")))
	assert.True(t, a.IsEmpty(tags[1]), "empty string")
	assert.False(t, a.IsEmpty(tags[0]))
	assert.True(t, a.IsEmpty(member(t, top, "rating")))

	extra := member(t, member(t, top, "items").Children()[1], "extra")
	assert.True(t, a.IsEmpty(extra))
}

func TestNormalize(t *testing.T) {
	v, err := fastjson.Parse(`[1]`)
	require.NoError(t, err)

	doc, ok := a.Normalize(v).(*jsonadapter.Node)
	require.True(t, ok)
	require.Len(t, doc.Children(), 1)
	assert.Equal(t, v, doc.Children()[0].Value())

	assert.Equal(t, adapter.Node(doc), a.Normalize(doc))
}
