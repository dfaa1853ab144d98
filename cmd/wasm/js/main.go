//go:build js && wasm

// Command goselect-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `goselect` object with the following API:
//
//	goselect.version()                       → string
//	goselect.select(selector, text, kind?)   → matchesJSON  (throws on error)
//	goselect.compile(selector, kind?)        → { select(text) → matchesJSON }  (throws on error)
//
// kind is one of "xml" (default), "html", "json" or "go". Each match is
// rendered as a short description such as "li#item.active".
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o goselect.wasm ./cmd/wasm/js/
//
// Usage in Node.js:
//
//	const matches = JSON.parse(goselect.select('li.x', '<ul><li class="x"/></ul>'))
package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/internal/document"
	"github.com/sandrolain/goselect/pkg/adapter"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	js.Global().Get("Error").New(msg)
	panic(msg)
}

func kindArg(args []js.Value, i int) document.Kind {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return document.XML
	}
	k, err := document.ParseKind(args[i].String())
	if err != nil {
		jsThrow(err.Error())
	}
	return k
}

// run selects with sel in text and returns the matches as a JSON array.
func run(sel *goselect.Selector, text string, kind document.Kind) string {
	doc, err := document.Load(strings.NewReader(text), kind)
	if err != nil {
		jsThrow(fmt.Sprintf("invalid %s document: %v", kind, err))
	}
	matches := []string{}
	sel.Each(doc.Root, func(n adapter.Node) bool {
		matches = append(matches, doc.Describe(n))
		return true
	})
	out, _ := json.Marshal(matches)
	return string(out)
}

// compile builds a selector bound to the adapter of kind.
func compile(source string, kind document.Kind) *goselect.Selector {
	sel, err := goselect.Compile(source, kind.Options()...)
	if err != nil {
		jsThrow(fmt.Sprintf("goselect.compile: %v", err))
	}
	return sel
}

// jsSelect implements goselect.select(selector, text, kind?).
func jsSelect(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		jsThrow("goselect.select requires 2 arguments: selector (string) and document (string)")
	}
	kind := kindArg(args, 2)
	return run(compile(args[0].String(), kind), args[1].String(), kind)
}

// jsCompile implements goselect.compile(selector, kind?) → { select(text) }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("goselect.compile requires 1 argument: selector (string)")
	}
	kind := kindArg(args, 1)
	sel := compile(args[0].String(), kind)

	selectFn := js.FuncOf(func(_ js.Value, innerArgs []js.Value) interface{} {
		if len(innerArgs) < 1 {
			jsThrow("compiled.select requires 1 argument: document (string)")
		}
		return run(sel, innerArgs[0].String(), kind)
	})

	return js.ValueOf(map[string]interface{}{"select": selectFn})
}

func main() {
	api := map[string]interface{}{
		"select":  js.FuncOf(jsSelect),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return goselect.Version()
		}),
	}
	js.Global().Set("goselect", js.ValueOf(api))

	// Block forever; the JS event loop owns execution from here.
	select {}
}
