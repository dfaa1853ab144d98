package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/goselect/pkg/ast"
)

// Parser is a recursive descent parser over a single selector source.
type Parser struct {
	s     scanner
	kinds ArgumentKinds
	opts  Options
	depth int
}

// NewParser creates a parser for input.
func NewParser(input string, kinds ArgumentKinds, opts ...Option) *Parser {
	p := &Parser{
		s:     newScanner(input),
		kinds: kinds,
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.MaxDepth <= 0 {
		p.opts.MaxDepth = defaultMaxDepth
	}
	return p
}

// Parse parses the whole input. Leading and trailing whitespace is ignored;
// anything else left after the selector list is an error.
func (p *Parser) Parse() (ast.SelectorList, error) {
	p.s.current = 0
	p.depth = 0
	p.s.skipWhitespace()

	list, err := p.parseComplexSelectorList()
	if err != nil {
		return ast.SelectorList{}, err
	}

	p.s.skipWhitespace()
	if !p.s.atEOF() {
		return ast.SelectorList{}, p.error(ast.ErrTrailingInput, "expected end of input")
	}
	return list, nil
}

func (p *Parser) error(code ast.ErrorCode, message string) error {
	return ast.NewParseError(code, message, p.s.charPos())
}

// expected reports a missing token, distinguishing the end of input from an
// unexpected character.
func (p *Parser) expected(what string) error {
	if p.s.atEOF() {
		return p.error(ast.ErrUnexpectedEnd, fmt.Sprintf("expected %s, got end of input", what))
	}
	return p.error(ast.ErrUnexpectedCharacter, fmt.Sprintf("expected %s, got %q", what, p.s.peek()))
}

// ── Selector lists ─────────────────────────────────────────────────────────

func (p *Parser) parseComplexSelectorList() (ast.SelectorList, error) {
	var selectors []ast.Selector
	err := p.parseCommaSeparated(func() error {
		sel, err := p.parseComplexSelector()
		if err != nil {
			return err
		}
		selectors = append(selectors, sel)
		return nil
	})
	if err != nil {
		return ast.SelectorList{}, err
	}
	return ast.SelectorList{Selectors: selectors}, nil
}

func (p *Parser) parseRelativeSelectorList() (ast.RelativeSelectorList, error) {
	var selectors []ast.RelativeSelector
	err := p.parseCommaSeparated(func() error {
		combinator, ok := p.tryParseCombinator()
		if !ok {
			combinator = ast.Descendant
		}
		sel, err := p.parseComplexSelector()
		if err != nil {
			return err
		}
		selectors = append(selectors, ast.RelativeSelector{Combinator: combinator, Right: sel})
		return nil
	})
	if err != nil {
		return ast.RelativeSelectorList{}, err
	}
	return ast.RelativeSelectorList{Selectors: selectors}, nil
}

// parseCommaSeparated calls item once, then again after every comma.
func (p *Parser) parseCommaSeparated(item func() error) error {
	if err := item(); err != nil {
		return err
	}
	for {
		mark := p.s.current
		p.s.skipWhitespace()
		if !p.s.acceptRune(',') {
			p.s.current = mark
			return nil
		}
		p.s.skipWhitespace()
		if err := item(); err != nil {
			return err
		}
	}
}

// ── Complex selectors and combinators ──────────────────────────────────────

func (p *Parser) parseComplexSelector() (ast.Selector, error) {
	last, err := p.parseCompoundSelector()
	if err != nil {
		return nil, err
	}

	var lefts []ast.CompoundSelector
	var combinators []ast.Combinator
	for {
		combinator, ok := p.tryParseCombinator()
		if !ok {
			break
		}
		lefts = append(lefts, last)
		combinators = append(combinators, combinator)
		if last, err = p.parseCompoundSelector(); err != nil {
			return nil, err
		}
	}

	var sel ast.Selector = last
	for i := len(lefts) - 1; i >= 0; i-- {
		sel = ast.ComplexSelector{Left: lefts[i], Combinator: combinators[i], Right: sel}
	}
	return sel, nil
}

// tryParseCombinator consumes a combinator and the whitespace around it.
// Whitespace alone is a descendant combinator unless it precedes ",", ")" or
// the end of input.
func (p *Parser) tryParseCombinator() (ast.Combinator, bool) {
	start := p.s.current
	ws := p.s.skipWhitespace()

	var combinator ast.Combinator
	switch {
	case p.s.acceptRune('>'):
		combinator = ast.Child
	case p.s.acceptRune('+'):
		combinator = ast.Adjacent
	case p.s.acceptRune('~'):
		combinator = ast.Sibling
	case p.s.acceptString("||"):
		combinator = ast.Column
	default:
		if ws && !p.s.atEOF() {
			if r := p.s.peek(); r != ',' && r != ')' {
				return ast.Descendant, true
			}
		}
		p.s.current = start
		return 0, false
	}

	p.s.skipWhitespace()
	return combinator, true
}

// ── Compound selectors ─────────────────────────────────────────────────────

func (p *Parser) parseCompoundSelector() (ast.CompoundSelector, error) {
	var compound ast.CompoundSelector

	compound.Type = p.tryParseTypeSelector()

	for {
		sub, ok, err := p.tryParseSubclassSelector()
		if err != nil {
			return ast.CompoundSelector{}, err
		}
		if !ok {
			break
		}
		compound.Subclasses = append(compound.Subclasses, sub)
	}

	for {
		pe, ok, err := p.tryParsePseudoElement()
		if err != nil {
			return ast.CompoundSelector{}, err
		}
		if !ok {
			break
		}
		compound.PseudoElements = append(compound.PseudoElements, pe)
	}

	if compound.Type == nil && compound.Subclasses == nil && compound.PseudoElements == nil {
		if p.s.atEOF() {
			return ast.CompoundSelector{}, p.error(ast.ErrUnexpectedEnd,
				"expected type, subclass, or pseudo element selector, got end of input")
		}
		return ast.CompoundSelector{}, p.error(ast.ErrEmptyCompound,
			"expected type, subclass, or pseudo element selector")
	}
	return compound, nil
}

// tryParseNamespacePrefix consumes "ns|", "*|" or a bare "|" when a name
// follows it. starName allows "*" as that name (type selectors only).
func (p *Parser) tryParseNamespacePrefix(starName bool) (ast.NamespacePrefix, bool) {
	start := p.s.current

	var ns ast.NamespacePrefix
	if p.s.acceptRune('*') {
		ns = ast.UniversalNamespace{}
	} else if raw, ok := p.s.scanIdent(); ok {
		ns = unescapeNamespace(raw)
	} else {
		ns = ast.Namespace{}
	}

	if p.s.acceptRune('|') {
		mark := p.s.current
		if _, ok := p.s.scanIdent(); ok {
			p.s.current = mark
			return ns, true
		}
		if starName && p.s.peek() == '*' {
			return ns, true
		}
	}

	p.s.current = start
	return nil, false
}

func (p *Parser) tryParseTypeSelector() ast.TypeSelector {
	start := p.s.current
	ns, _ := p.tryParseNamespacePrefix(true)

	if p.s.acceptRune('*') {
		return ast.UniversalType{Namespace: ns}
	}
	if raw, ok := p.s.scanIdent(); ok {
		return ast.TagNameType{Namespace: ns, TagName: unescapeIdent(raw)}
	}

	p.s.current = start
	return nil
}

func (p *Parser) tryParseSubclassSelector() (ast.SubclassSelector, bool, error) {
	switch p.s.peek() {
	case '#':
		p.s.nextRune()
		raw, ok := p.s.scanIdent()
		if !ok {
			return nil, false, p.expected("identifier after \"#\"")
		}
		return ast.ID{Name: unescapeIdent(raw)}, true, nil

	case '.':
		p.s.nextRune()
		raw, ok := p.s.scanIdent()
		if !ok {
			return nil, false, p.expected("identifier after \".\"")
		}
		return ast.ClassName{Name: unescapeIdent(raw)}, true, nil

	case '[':
		p.s.nextRune()
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, false, err
		}
		return attr, true, nil

	case ':':
		if p.s.peekAt(1) == ':' {
			return nil, false, nil
		}
		p.s.nextRune()
		pc, err := p.parsePseudoClass()
		if err != nil {
			return nil, false, err
		}
		return pc, true, nil
	}
	return nil, false, nil
}

// ── Attribute selectors ────────────────────────────────────────────────────

var attributeMatchers = []ast.Matcher{
	ast.MatchEqual,
	ast.MatchIncludes,
	ast.MatchDashPrefix,
	ast.MatchPrefix,
	ast.MatchSuffix,
	ast.MatchSubstring,
}

// parseAttribute parses the part of an attribute selector after "[".
func (p *Parser) parseAttribute() (ast.Attribute, error) {
	var attr ast.Attribute

	p.s.skipWhitespace()
	attr.Namespace, _ = p.tryParseNamespacePrefix(false)

	raw, ok := p.s.scanIdent()
	if !ok {
		return ast.Attribute{}, p.expected("attribute name")
	}
	attr.Name = unescapeIdent(raw)
	p.s.skipWhitespace()

	if p.s.acceptRune(']') {
		return attr, nil
	}

	for _, m := range attributeMatchers {
		if p.s.acceptString(string(m)) {
			attr.Matcher = m
			break
		}
	}
	if attr.Matcher == ast.MatchNone {
		return ast.Attribute{}, p.expected(`attribute matcher or "]"`)
	}
	p.s.skipWhitespace()

	value, ok, err := p.tryParseValue()
	if err != nil {
		return ast.Attribute{}, err
	}
	if !ok {
		return ast.Attribute{}, p.error(ast.ErrInvalidAttributeItem,
			"expected identifier, string, or substitution as attribute value")
	}
	attr.Value = value
	p.s.skipWhitespace()

	switch {
	case p.s.acceptRune('i'), p.s.acceptRune('I'):
		attr.Modifier = ast.ModifierInsensitive
	case p.s.acceptRune('s'), p.s.acceptRune('S'):
		attr.Modifier = ast.ModifierSensitive
	}
	p.s.skipWhitespace()

	if !p.s.acceptRune(']') {
		return ast.Attribute{}, p.expected(`"]"`)
	}
	return attr, nil
}

// tryParseValue parses an identifier, a quoted string or a "$name"
// substitution.
func (p *Parser) tryParseValue() (ast.Value, bool, error) {
	if raw, ok := p.s.scanIdent(); ok {
		return ast.Ident{Value: unescapeIdent(raw)}, true, nil
	}

	raw, ok, closed := p.s.scanString()
	if ok {
		if !closed {
			return nil, false, p.error(ast.ErrStringNotClosed, "unterminated string")
		}
		return ast.String{Value: unescapeString(raw)}, true, nil
	}

	if p.s.peek() == '$' {
		start := p.s.current
		p.s.nextRune()
		if raw, ok := p.s.scanIdent(); ok {
			return ast.Substitution{Name: unescapeIdent(raw)}, true, nil
		}
		p.s.current = start
	}
	return nil, false, nil
}

// ── Pseudo-classes and pseudo-elements ─────────────────────────────────────

// parsePseudoClass parses the part of a pseudo-class after ":".
func (p *Parser) parsePseudoClass() (ast.PseudoClass, error) {
	raw, ok := p.s.scanIdent()
	if !ok {
		return ast.PseudoClass{}, p.expected("pseudo-class name")
	}
	pc := ast.PseudoClass{Name: unescapeIdent(raw)}

	if p.tryOpenParen() {
		arg, err := p.parseFunctionArgument(p.argumentKind(pc.Name))
		if err != nil {
			return ast.PseudoClass{}, err
		}
		pc.Argument = arg
	}
	return pc, nil
}

func (p *Parser) tryParsePseudoElement() (ast.PseudoElement, bool, error) {
	if !p.s.acceptString("::") {
		return ast.PseudoElement{}, false, nil
	}
	raw, ok := p.s.scanIdent()
	if !ok {
		return ast.PseudoElement{}, false, p.expected("pseudo-element name")
	}
	pe := ast.PseudoElement{Name: unescapeIdent(raw)}

	if p.tryOpenParen() {
		arg, err := p.parseFunctionArgument(ast.ArgumentNone)
		if err != nil {
			return ast.PseudoElement{}, false, err
		}
		pe.Argument = arg
	}

	for p.s.peek() == ':' && p.s.peekAt(1) != ':' {
		p.s.nextRune()
		pc, err := p.parsePseudoClass()
		if err != nil {
			return ast.PseudoElement{}, false, err
		}
		pe.PseudoClasses = append(pe.PseudoClasses, pc)
	}
	return pe, true, nil
}

// tryOpenParen consumes "(" and the whitespace on both sides of it.
func (p *Parser) tryOpenParen() bool {
	mark := p.s.current
	p.s.skipWhitespace()
	if !p.s.acceptRune('(') {
		p.s.current = mark
		return false
	}
	p.s.skipWhitespace()
	return true
}

func (p *Parser) closeParen() error {
	p.s.skipWhitespace()
	if !p.s.acceptRune(')') {
		return p.expected(`")"`)
	}
	return nil
}

func (p *Parser) argumentKind(name string) ast.ArgumentKind {
	if p.kinds == nil {
		return ast.ArgumentNone
	}
	kind, _ := p.kinds.ArgumentKind(strings.ToLower(name))
	return kind
}

func (p *Parser) parseFunctionArgument(kind ast.ArgumentKind) (ast.Argument, error) {
	var arg ast.Argument
	var err error

	switch kind {
	case ast.ArgumentSelectorList:
		if err := p.enter(); err != nil {
			return nil, err
		}
		arg, err = p.parseComplexSelectorList()
		p.depth--

	case ast.ArgumentRelativeSelectorList:
		if err := p.enter(); err != nil {
			return nil, err
		}
		arg, err = p.parseRelativeSelectorList()
		p.depth--

	case ast.ArgumentNth:
		arg, err = p.parseNth()

	case ast.ArgumentNthOfSelectorList:
		arg, err = p.parseNthOfSelectorList()

	default:
		arg, err = p.parseValueList()
	}

	if err != nil {
		return nil, err
	}
	if err := p.closeParen(); err != nil {
		return nil, err
	}
	return arg, nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		return p.error(ast.ErrNestingTooDeep,
			fmt.Sprintf("selector nesting exceeds maximum depth of %d", p.opts.MaxDepth))
	}
	return nil
}

// ── Argument values ────────────────────────────────────────────────────────

func (p *Parser) parseValueList() (ast.ValueList, error) {
	var values []ast.Value
	err := p.parseCommaSeparated(func() error {
		v, ok, err := p.tryParseValue()
		if err != nil {
			return err
		}
		if !ok {
			v = p.parseBareValue()
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return ast.ValueList{}, err
	}
	return ast.ValueList{Values: values}, nil
}

// parseBareValue reads everything up to the next "," or ")".
func (p *Parser) parseBareValue() ast.Bare {
	start := p.s.current
	for {
		r := p.s.nextRune()
		if r == eof {
			break
		}
		if r == ',' || r == ')' {
			p.s.backup()
			break
		}
	}
	return ast.Bare{Value: strings.TrimSpace(p.s.input[start:p.s.current])}
}

func (p *Parser) parseNthOfSelectorList() (ast.NthOfSelectorList, error) {
	nth, err := p.parseNth()
	if err != nil {
		return ast.NthOfSelectorList{}, err
	}
	arg := ast.NthOfSelectorList{Nth: nth}

	mark := p.s.current
	if p.s.skipWhitespace() && p.s.acceptFold("of") && !isIdentPart(p.s.peek()) {
		p.s.skipWhitespace()
		if err := p.enter(); err != nil {
			return ast.NthOfSelectorList{}, err
		}
		list, err := p.parseComplexSelectorList()
		p.depth--
		if err != nil {
			return ast.NthOfSelectorList{}, err
		}
		arg.SelectorList = &list
	} else {
		p.s.current = mark
	}
	return arg, nil
}

// parseNth parses "odd", "even" or An+B. Keywords and the "n" are matched
// ASCII case-insensitively; whitespace may surround the sign before B.
func (p *Parser) parseNth() (ast.NthValue, error) {
	start := p.s.current

	if p.s.acceptFold("odd") && !isWordChar(p.s.peek()) {
		return ast.Odd{}, nil
	}
	p.s.current = start
	if p.s.acceptFold("even") && !isWordChar(p.s.peek()) {
		return ast.Even{}, nil
	}
	p.s.current = start

	sign := 1
	switch {
	case p.s.acceptRune('+'):
	case p.s.acceptRune('-'):
		sign = -1
	}
	digitsStart := p.s.current
	p.s.acceptAll(isDigit)
	digits := p.s.input[digitsStart:p.s.current]

	if !p.s.acceptRune('n') && !p.s.acceptRune('N') {
		if digits == "" {
			p.s.current = start
			return nil, p.error(ast.ErrInvalidNth, `expected "odd", "even", or An+B`)
		}
		b, err := p.nthInt(digits, start)
		if err != nil {
			return nil, err
		}
		return ast.Nth{A: 0, B: sign * b}, nil
	}

	a := 1
	if digits != "" {
		n, err := p.nthInt(digits, start)
		if err != nil {
			return nil, err
		}
		a = n
	}
	nth := ast.Nth{A: sign * a}

	mark := p.s.current
	p.s.skipWhitespace()
	bSign := 0
	switch {
	case p.s.acceptRune('+'):
		bSign = 1
	case p.s.acceptRune('-'):
		bSign = -1
	}
	if bSign == 0 {
		p.s.current = mark
		return nth, nil
	}

	p.s.skipWhitespace()
	digitsStart = p.s.current
	if !p.s.acceptAll(isDigit) {
		return nil, p.error(ast.ErrInvalidNth, "expected digits after sign in An+B")
	}
	b, err := p.nthInt(p.s.input[digitsStart:p.s.current], digitsStart)
	if err != nil {
		return nil, err
	}
	nth.B = bSign * b
	return nth, nil
}

func (p *Parser) nthInt(digits string, at int) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		p.s.current = at
		return 0, p.error(ast.ErrInvalidNth, fmt.Sprintf("number %s is out of range", digits))
	}
	return n, nil
}
