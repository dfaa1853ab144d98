package query

import (
	"github.com/sandrolain/goselect/pkg/adapter"
)

// Options are the read-only matching options of one call.
type Options struct {
	// TagNameCase governs type selectors and the of-type pseudo-classes.
	TagNameCase adapter.CaseMode
	// AttributeNameCase governs attribute name lookup.
	AttributeNameCase adapter.CaseMode
	// CaseSensitiveAttributeValues lists attribute names whose values are
	// compared case-sensitively even under the "i" modifier. Names are
	// stored ASCII-lowercased.
	CaseSensitiveAttributeValues StringSet
	// CheckedElements are treated as matching :checked.
	CheckedElements NodeSet
	// DisabledElements are treated as matching :disabled.
	DisabledElements NodeSet
}

// DefaultOptions returns case-sensitive options with empty sets.
func DefaultOptions() Options {
	return Options{
		TagNameCase:       adapter.CaseSensitive,
		AttributeNameCase: adapter.CaseSensitive,
	}
}

// htmlCaseSensitiveAttributeValues is the attribute list from the HTML
// standard's "case-sensitivity of selectors" section.
var htmlCaseSensitiveAttributeValues = []string{
	"accept", "accept-charset", "align", "alink", "axis", "bgcolor", "charset",
	"checked", "clear", "codetype", "color", "compact", "declare", "defer", "dir",
	"direction", "disabled", "enctype", "face", "frame", "hreflang", "http-equiv",
	"lang", "language", "link", "media", "method", "multiple", "nohref",
	"noresize", "noshade", "nowrap", "readonly", "rel", "rev", "rules", "scope",
	"scrolling", "selected", "shape", "target", "text", "type", "valign",
	"valuetype", "vlink",
}

// HTMLOptions returns options for HTML documents: case-insensitive tag and
// attribute names plus the HTML list of case-sensitive attribute values.
func HTMLOptions() Options {
	return Options{
		TagNameCase:                  adapter.CaseInsensitive,
		AttributeNameCase:            adapter.CaseInsensitive,
		CaseSensitiveAttributeValues: NewStringSet(htmlCaseSensitiveAttributeValues...),
	}
}

// StringSet is a set of ASCII-lowercased names.
type StringSet map[string]struct{}

// NewStringSet builds a set, lowercasing each name.
func NewStringSet(names ...string) StringSet {
	s := make(StringSet, len(names))
	for _, name := range names {
		s[lowerASCII(name)] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set, ignoring ASCII case.
func (s StringSet) Has(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[lowerASCII(name)]
	return ok
}

// NodeSet is a set of nodes.
type NodeSet map[adapter.Node]struct{}

// NewNodeSet builds a set from nodes.
func NewNodeSet(nodes ...adapter.Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether node is in the set.
func (s NodeSet) Has(node adapter.Node) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[node]
	return ok
}
