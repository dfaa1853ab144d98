// Package ast defines the syntax tree produced by the selector parser.
//
// Every node is an immutable value. Interfaces with unexported marker methods
// close each sum type, so consumers can switch over the concrete variants
// knowing the set is fixed:
//
//	Selector         = CompoundSelector | ComplexSelector
//	TypeSelector     = TagNameType | UniversalType
//	NamespacePrefix  = Namespace | UniversalNamespace
//	SubclassSelector = ID | ClassName | Attribute | PseudoClass
//	Argument         = SelectorList | RelativeSelectorList | Odd | Even | Nth |
//	                   NthOfSelectorList | ValueList
//	Value            = Substitution | Ident | String | Bare
//
// Optional members are nil interfaces (or a nil pointer for
// NthOfSelectorList.SelectorList). Two trees parsed from the same source are
// equal under reflect.DeepEqual.
package ast

// Combinator joins two compound selectors.
type Combinator int

const (
	// Descendant is whitespace: "a b".
	Descendant Combinator = iota
	// Child is "a > b".
	Child
	// Adjacent is "a + b".
	Adjacent
	// Sibling is "a ~ b".
	Sibling
	// Column is "a || b". It parses but never compiles.
	Column
)

// String returns the combinator name.
func (c Combinator) String() string {
	switch c {
	case Descendant:
		return "descendant"
	case Child:
		return "child"
	case Adjacent:
		return "adjacent"
	case Sibling:
		return "sibling"
	case Column:
		return "column"
	}
	return "unknown"
}

// ArgumentKind tells the parser how to read the parenthesized argument of a
// pseudo-class.
type ArgumentKind int

const (
	// ArgumentNone reads a generic comma-separated ValueList.
	ArgumentNone ArgumentKind = iota
	// ArgumentSelectorList reads a complex selector list.
	ArgumentSelectorList
	// ArgumentRelativeSelectorList reads a relative selector list (":has").
	ArgumentRelativeSelectorList
	// ArgumentNth reads odd, even or An+B.
	ArgumentNth
	// ArgumentNthOfSelectorList reads An+B optionally followed by "of S".
	ArgumentNthOfSelectorList
)

// String returns the argument kind name.
func (k ArgumentKind) String() string {
	switch k {
	case ArgumentNone:
		return "none"
	case ArgumentSelectorList:
		return "selector_list"
	case ArgumentRelativeSelectorList:
		return "relative_selector_list"
	case ArgumentNth:
		return "nth"
	case ArgumentNthOfSelectorList:
		return "nth_of_selector_list"
	}
	return "unknown"
}

// Matcher is the comparison operator of an attribute selector.
// The zero value means a presence test.
type Matcher string

const (
	MatchNone       Matcher = ""
	MatchEqual      Matcher = "="
	MatchIncludes   Matcher = "~="
	MatchDashPrefix Matcher = "|="
	MatchPrefix     Matcher = "^="
	MatchSuffix     Matcher = "$="
	MatchSubstring  Matcher = "*="
)

// Modifier is the case modifier of an attribute selector.
type Modifier string

const (
	ModifierNone        Modifier = ""
	ModifierInsensitive Modifier = "i"
	ModifierSensitive   Modifier = "s"
)

// Selector is either a CompoundSelector or a ComplexSelector.
type Selector interface {
	selector()
}

// SelectorList is a comma-separated list of alternatives.
type SelectorList struct {
	Selectors []Selector
}

// ComplexSelector joins a compound selector with the rest of the chain on its
// right. Chains lean right: "a b c" is {a, descendant, {b, descendant, c}}.
type ComplexSelector struct {
	Left       CompoundSelector
	Combinator Combinator
	Right      Selector
}

// CompoundSelector is a type selector followed by subclass selectors and
// pseudo-elements, with no combinator in between.
type CompoundSelector struct {
	Type           TypeSelector
	Subclasses     []SubclassSelector
	PseudoElements []PseudoElement
}

// RelativeSelector is a selector with a leading combinator, used by ":has".
type RelativeSelector struct {
	Combinator Combinator
	Right      Selector
}

// RelativeSelectorList is a comma-separated list of relative selectors.
type RelativeSelectorList struct {
	Selectors []RelativeSelector
}

func (CompoundSelector) selector() {}
func (ComplexSelector) selector()  {}

// TypeSelector is either a TagNameType or a UniversalType.
type TypeSelector interface {
	typeSelector()
}

// TagNameType matches elements by tag name, e.g. "svg|rect".
type TagNameType struct {
	Namespace NamespacePrefix
	TagName   string
}

// UniversalType is "*", optionally namespaced.
type UniversalType struct {
	Namespace NamespacePrefix
}

func (TagNameType) typeSelector()   {}
func (UniversalType) typeSelector() {}

// NamespacePrefix is either a Namespace or a UniversalNamespace.
type NamespacePrefix interface {
	namespacePrefix()
}

// Namespace is a named prefix. An empty Name comes from a bare "|name".
type Namespace struct {
	Name string
}

// UniversalNamespace is the "*|" prefix.
type UniversalNamespace struct{}

func (Namespace) namespacePrefix()          {}
func (UniversalNamespace) namespacePrefix() {}

// SubclassSelector is one of ID, ClassName, Attribute or PseudoClass.
type SubclassSelector interface {
	subclassSelector()
}

// ID is "#name".
type ID struct {
	Name string
}

// ClassName is ".name".
type ClassName struct {
	Name string
}

// Attribute is "[ns|name matcher value modifier]". Matcher, Value and
// Modifier are all unset for a presence test.
type Attribute struct {
	Namespace NamespacePrefix
	Name      string
	Matcher   Matcher
	Value     Value
	Modifier  Modifier
}

// PseudoClass is ":name" or ":name(argument)".
type PseudoClass struct {
	Name     string
	Argument Argument
}

func (ID) subclassSelector()          {}
func (ClassName) subclassSelector()   {}
func (Attribute) subclassSelector()   {}
func (PseudoClass) subclassSelector() {}

// PseudoElement is "::name", optionally with an argument and trailing
// pseudo-classes.
type PseudoElement struct {
	Name          string
	Argument      Argument
	PseudoClasses []PseudoClass
}

// Argument is the parenthesized argument of a pseudo-class or pseudo-element.
type Argument interface {
	argument()
}

// NthValue is one of Odd, Even or Nth.
type NthValue interface {
	Argument
	nthValue()
}

// Odd is the "odd" keyword, equivalent to 2n+1.
type Odd struct{}

// Even is the "even" keyword, equivalent to 2n.
type Even struct{}

// Nth is the An+B formula.
type Nth struct {
	A int
	B int
}

// NthOfSelectorList is "An+B of S". SelectorList is nil without "of".
type NthOfSelectorList struct {
	Nth          NthValue
	SelectorList *SelectorList
}

// ValueList is a generic comma-separated argument.
type ValueList struct {
	Values []Value
}

func (SelectorList) argument()         {}
func (RelativeSelectorList) argument() {}
func (Odd) argument()                  {}
func (Even) argument()                 {}
func (Nth) argument()                  {}
func (NthOfSelectorList) argument()    {}
func (ValueList) argument()            {}

func (Odd) nthValue()  {}
func (Even) nthValue() {}
func (Nth) nthValue()  {}

// Value is one of Substitution, Ident, String or Bare.
type Value interface {
	value()
}

// Substitution is "$name", resolved at match time.
type Substitution struct {
	Name string
}

// Ident is an unescaped identifier.
type Ident struct {
	Value string
}

// String is an unescaped quoted string.
type String struct {
	Value string
}

// Bare is a raw token from a value list that is neither an identifier nor a
// string, trimmed of surrounding whitespace.
type Bare struct {
	Value string
}

func (Substitution) value() {}
func (Ident) value()        {}
func (String) value()       {}
func (Bare) value()         {}
