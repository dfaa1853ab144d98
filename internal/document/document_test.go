package document_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/internal/document"
)

const xmlDoc = `<list><item id="a" class="x y"/><item id="b"/></list>`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestKindFromPath(t *testing.T) {
	tests := map[string]document.Kind{
		"page.html":        document.HTML,
		"PAGE.HTM":         document.HTML,
		"data.json":        document.JSON,
		"data.json.gz":     document.JSON,
		"main.go":          document.Go,
		"feed.xml.zst":     document.XML,
		"no-extension":     document.XML,
		"archive.tar.gz":   document.XML,
		"index.xhtml":      document.HTML,
		"nested/dir/x.svg": document.XML,
	}
	for path, want := range tests {
		assert.Equal(t, want, document.KindFromPath(path), path)
	}
}

func TestParseKind(t *testing.T) {
	k, err := document.ParseKind("HTML")
	require.NoError(t, err)
	assert.Equal(t, document.HTML, k)

	_, err = document.ParseKind("yaml")
	assert.ErrorContains(t, err, "unknown document kind")
}

func TestLoadFileCompressed(t *testing.T) {
	files := map[string][]byte{
		"list.xml":     []byte(xmlDoc),
		"list.xml.gz":  gzipped(t, xmlDoc),
		"list.xml.zst": zstded(t, xmlDoc),
	}
	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			doc, err := document.LoadFile(writeFile(t, name, data), "")
			require.NoError(t, err)
			assert.Equal(t, document.XML, doc.Kind)

			nodes, err := goselect.SelectAll(doc.Root, "item", doc.Options...)
			require.NoError(t, err)
			require.Len(t, nodes, 2)
			assert.Equal(t, "item#a.x.y", doc.Describe(nodes[0]))
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := document.LoadFile(filepath.Join(t.TempDir(), "missing.xml"), "")
	assert.Error(t, err)

	_, err = document.LoadFile(writeFile(t, "bad.xml.gz", []byte("not gzip")), "")
	assert.ErrorContains(t, err, "gzip")

	_, err = document.LoadFile(writeFile(t, "bad.json", []byte("{")), "")
	assert.ErrorContains(t, err, "load")
}

func TestLoadKinds(t *testing.T) {
	tests := []struct {
		name     string
		kind     document.Kind
		data     string
		selector string
		want     string
	}{
		{"page.html", "", `<p><A HREF="/x" id="l" class="Ext">x</A></p>`, "P > A[HREF]", "a#l.Ext"},
		{"data.json", "", `{"items": [{"sku": "x1"}]}`, "string[key=sku]", `string[key="sku"][value="x1"]`},
		{"main.go", "", "package m\n\nfunc f() { g(1) }\n", "CallExpr", "CallExpr g(1)"},
		{"svg.txt", document.XML, `<svg:svg xmlns:svg="urn:svg"><svg:rect id="r"/></svg:svg>`, "svg|rect", "svg|rect#r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.LoadFile(writeFile(t, tt.name, []byte(tt.data)), tt.kind)
			require.NoError(t, err)

			n, err := goselect.Select(doc.Root, tt.selector, doc.Options...)
			require.NoError(t, err)
			require.NotNil(t, n)
			assert.Equal(t, tt.want, doc.Describe(n))
		})
	}
}

func TestKindOptions(t *testing.T) {
	doc, err := document.Load(strings.NewReader(`<form><INPUT type="checkbox"></form>`), document.HTML)
	require.NoError(t, err)

	sel, err := goselect.Compile("input[type=checkbox]", document.HTML.Options()...)
	require.NoError(t, err)
	assert.Len(t, sel.SelectAll(doc.Root), 1)

	for _, k := range document.Kinds {
		assert.NotEmpty(t, k.Options(), k)
	}
}
