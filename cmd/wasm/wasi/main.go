//go:build wasip1

// Command goselect-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "selector": "<css>", "document": "<text>", "kind": "xml|html|json|go" }
//	stdout: { "matches": ["tag#id.class", ...] }   on success
//	        { "error":  "<message>" }               on failure (exit code 1)
//
// The kind defaults to xml.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o goselect.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"selector":"li.x","document":"<ul><li class=\"x\"/></ul>"}' | wasmtime goselect.wasm
package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/sandrolain/goselect"
	"github.com/sandrolain/goselect/internal/document"
	"github.com/sandrolain/goselect/pkg/adapter"
)

type request struct {
	Selector string `json:"selector"`
	Document string `json:"document"`
	Kind     string `json:"kind"`
}

type response struct {
	Matches []string `json:"matches,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	kind := document.XML
	if req.Kind != "" {
		k, err := document.ParseKind(req.Kind)
		if err != nil {
			writeResponse(response{Error: err.Error()}, 1)
		}
		kind = k
	}

	doc, err := document.Load(strings.NewReader(req.Document), kind)
	if err != nil {
		writeResponse(response{Error: "invalid document: " + err.Error()}, 1)
	}

	matches := []string{}
	err = goselect.EachSelect(doc.Root, req.Selector, func(n adapter.Node) bool {
		matches = append(matches, doc.Describe(n))
		return true
	}, doc.Options...)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	writeResponse(response{Matches: matches}, 0)
}
