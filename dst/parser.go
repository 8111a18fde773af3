package dst

import (
	"github.com/dellyoung/lessgo/internal/strings"
)

// Parser is a lex-free recursive descent parser: it drives a Cursor
// directly over the source text rather than tokenizing ahead of time. It
// performs no evaluation; every value, selector, and parameter list is kept
// as raw (or variable-reference-aware) text for the evaluator to resolve.
type Parser struct {
	c *Cursor
}

// Parse parses a complete LESS source into a File.
func Parse(source string) (*File, error) {
	p := &Parser{c: NewCursor(source)}
	f := &File{}
	for {
		p.c.SkipWhitespaceAndComments()
		if p.c.Eof() {
			break
		}
		stmt, err := p.parseStatement(true)
		if err != nil {
			return nil, err
		}
		f.Statements = append(f.Statements, stmt)
	}
	return f, nil
}

// parseStatement dispatches a single top-level or nested statement per
// §4.1: `@import`, variable declarations, at-rules, mixin
// definitions/calls, and plain rule sets.
func (p *Parser) parseStatement(topLevel bool) (Statement, error) {
	p.c.SkipWhitespaceAndComments()
	start := p.c.Pos()

	if p.c.Peek() == '@' {
		return p.parseAtStatement(topLevel, start)
	}

	if p.c.Peek() == '.' || p.c.Peek() == '#' {
		if stmt, ok, err := p.tryParseMixinHead(); err != nil {
			return nil, err
		} else if ok {
			return stmt, nil
		}
	}

	return p.parseRuleSet(start)
}

// parseAtStatement handles every construct beginning with '@' at the
// statement level: @import, @name: value;, @name: { ... };, and block/
// statement-form at-rules.
func (p *Parser) parseAtStatement(topLevel bool, start int) (Statement, error) {
	p.c.Advance() // consume '@'

	if p.c.Peek() == '{' {
		return nil, errAt(start, "unexpected `@{` at statement position")
	}

	name := p.c.readIdent()
	if name == "" {
		return nil, errAt(start, "expected identifier after `@`")
	}

	if name == "import" {
		if !topLevel {
			return nil, errAt(start, "`@import` requires statement position, not a rule body")
		}
		p.c.SkipWhitespaceAndComments()
		if p.c.Peek() == '{' {
			return nil, errAt(start, "`@import` requires statement position, not a block")
		}
		return p.parseImport(start)
	}

	p.c.SkipWhitespaceAndComments()
	if p.c.Peek() == ':' {
		p.c.Advance()
		p.c.SkipWhitespaceAndComments()
		if p.c.Peek() == '{' {
			body, err := p.parseBraceBody()
			if err != nil {
				return nil, err
			}
			p.c.SkipWhitespaceAndComments()
			if err := p.c.ExpectChar(';'); err != nil {
				return nil, err
			}
			return &VariableDecl{Name: name, DetachedBody: body, Pos: start}, nil
		}
		val, err := p.readValue(";}")
		if err != nil {
			return nil, err
		}
		val, _ = stripImportant(val)
		p.c.SkipWhitespaceAndComments()
		if err := p.c.ExpectChar(';'); err != nil {
			return nil, err
		}
		return &VariableDecl{Name: name, Value: val, Pos: start}, nil
	}

	if !topLevel && p.c.Peek() == '(' {
		mark := p.c.Mark()
		args, err := p.readParenGroup()
		if err == nil && strings.TrimSpace(args) == "" {
			p.c.SkipWhitespaceAndComments()
			if p.c.Peek() == ';' {
				p.c.Advance()
				return &DetachedCall{VariableName: name, Pos: start}, nil
			}
		}
		p.c.Reset(mark)
	}

	// Otherwise: an at-rule. Read params raw text up to '{' or ';'.
	p.c.SkipWhitespaceAndComments()
	params, err := p.readValue("{;")
	if err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	switch p.c.Peek() {
	case '{':
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, err
		}
		return &AtRule{Name: name, Params: params, Body: body, HasBlock: true, Pos: start}, nil
	case ';':
		p.c.Advance()
		return &AtRule{Name: name, Params: params, HasBlock: false, Pos: start}, nil
	default:
		return nil, errAt(p.c.Pos(), "expected `{` or `;` after at-rule")
	}
}

// parseImport parses the statement after "@import" has already been
// consumed.
func (p *Parser) parseImport(start int) (Statement, error) {
	p.c.SkipWhitespaceAndComments()
	cssPassthrough := false
	if p.c.MatchString("(css)") {
		cssPassthrough = true
		p.c.SkipWhitespaceAndComments()
	} else if p.c.Peek() == '(' {
		// Other @import options (reference, inline, once, ...): skip the
		// parenthesized option list; only "css" changes behavior here.
		opts, err := p.readParenGroup()
		if err != nil {
			return nil, err
		}
		for _, opt := range strings.Split(opts, ",") {
			if strings.TrimSpace(opt) == "css" {
				cssPassthrough = true
			}
		}
		p.c.SkipWhitespaceAndComments()
	}

	val, err := p.readValue(";")
	if err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	if err := p.c.ExpectChar(';'); err != nil {
		return nil, err
	}
	path := strings.Trim(strings.TrimSpace(val.Raw()), "\"'")
	if !cssPassthrough && !strings.HasSuffix(strings.ToLower(path), ".less") && strings.Contains(path, ".") {
		cssPassthrough = true
	}
	raw := p.c.Source()[start:p.c.Pos()]
	return &Import{
		RawText:        strings.TrimSpace(raw),
		Path:           path,
		CSSPassthrough: cssPassthrough,
		Pos:            start,
	}, nil
}

// tryParseMixinHead speculatively parses a mixin definition or call
// starting at a '.' or '#'. On failure it rewinds the cursor and reports
// ok=false so the caller falls back to ordinary selector-list parsing.
func (p *Parser) tryParseMixinHead() (Statement, bool, error) {
	mark := p.c.Mark()
	start := p.c.Pos()

	name, okName := p.scanMixinName()
	if !okName {
		p.c.Reset(mark)
		return nil, false, nil
	}

	p.c.SkipWhitespaceAndComments()
	if p.c.Peek() != '(' {
		p.c.Reset(mark)
		return nil, false, nil
	}

	paramsOrArgs, err := p.readParenGroup()
	if err != nil {
		p.c.Reset(mark)
		return nil, false, nil
	}

	p.c.SkipWhitespaceAndComments()

	guard := ""
	if p.matchKeyword("when") {
		p.c.SkipWhitespaceAndComments()
		if p.c.Peek() != '(' {
			p.c.Reset(mark)
			return nil, false, nil
		}
		g, err := p.readParenGroup()
		if err != nil {
			p.c.Reset(mark)
			return nil, false, nil
		}
		guard = strings.TrimSpace(g)
		p.c.SkipWhitespaceAndComments()
	}

	switch p.c.Peek() {
	case '{':
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, false, err
		}
		params, err := parseMixinParams(paramsOrArgs)
		if err != nil {
			return nil, false, err
		}
		return &MixinDefinition{Name: name, Params: params, Guard: guard, Body: body, Pos: start}, true, nil

	case ';', '!':
		important := false
		if p.c.Peek() == '!' {
			p.c.Advance()
			p.c.SkipWhitespaceAndComments()
			if !p.matchKeyword("important") {
				p.c.Reset(mark)
				return nil, false, nil
			}
			important = true
			p.c.SkipWhitespaceAndComments()
		}
		if guard != "" {
			// "when" only applies to definitions.
			p.c.Reset(mark)
			return nil, false, nil
		}
		if err := p.c.ExpectChar(';'); err != nil {
			p.c.Reset(mark)
			return nil, false, nil
		}
		args, err := parseMixinArgs(paramsOrArgs)
		if err != nil {
			return nil, false, err
		}
		return &MixinCall{Name: name, Args: args, Important: important, Pos: start}, true, nil

	default:
		p.c.Reset(mark)
		return nil, false, nil
	}
}

// scanMixinName reads a mixin head name: a leading '.' or '#' identifier,
// optionally chained through namespace separators ('.' or " > ") as in
// "#ns > .mixin" or "#ns.mixin".
func (p *Parser) scanMixinName() (string, bool) {
	var parts []string
	for {
		sigil := p.c.Peek()
		if sigil != '.' && sigil != '#' {
			break
		}
		p.c.Advance()
		id := p.c.readIdent()
		if id == "" {
			return "", false
		}
		parts = append(parts, string(sigil)+id)

		mark := p.c.Mark()
		p.c.SkipWhitespaceAndComments()
		if p.c.Peek() == '>' {
			p.c.Advance()
			p.c.SkipWhitespaceAndComments()
			continue
		}
		if p.c.Peek() == '.' || p.c.Peek() == '#' {
			continue
		}
		p.c.Reset(mark)
		break
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func (p *Parser) matchKeyword(kw string) bool {
	mark := p.c.Mark()
	if !p.c.MatchString(kw) {
		return false
	}
	if !p.c.Eof() && isIdentChar(p.c.Peek()) {
		p.c.Reset(mark)
		return false
	}
	return true
}

// parseRuleSet parses a selector list (raw text up to '{') and its body.
func (p *Parser) parseRuleSet(start int) (Statement, error) {
	selText, err := p.readValue("{")
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(selText.Raw())
	if raw == "" {
		return nil, errAt(start, "expected a selector before `{`")
	}
	selectors := splitTopLevel(raw, ',')
	for i := range selectors {
		selectors[i] = strings.TrimSpace(selectors[i])
	}
	body, err := p.parseBraceBody()
	if err != nil {
		return nil, err
	}
	return &RuleSet{Selectors: selectors, Body: body, Pos: start}, nil
}

// parseBraceBody consumes a '{' ... '}' pair and parses the body items
// inside.
func (p *Parser) parseBraceBody() ([]RuleBody, error) {
	if err := p.c.ExpectChar('{'); err != nil {
		return nil, err
	}
	var body []RuleBody
	for {
		p.c.SkipWhitespaceAndComments()
		if p.c.Eof() {
			return nil, errAt(p.c.Pos(), "unterminated block, expected `}`")
		}
		if p.c.Peek() == '}' {
			p.c.Advance()
			break
		}
		if p.c.Peek() == ';' {
			p.c.Advance() // stray semicolon
			continue
		}
		item, err := p.parseRuleBodyItem()
		if err != nil {
			return nil, err
		}
		body = append(body, item)
	}
	return body, nil
}

// parseRuleBodyItem dispatches one item inside a rule/at-rule/mixin body
// per §4.1's RuleSet body parsing rules.
func (p *Parser) parseRuleBodyItem() (RuleBody, error) {
	start := p.c.Pos()

	if p.c.Peek() == '&' && strings.HasPrefix(p.c.Rest(), "&:extend(") {
		return p.parseExtend(start)
	}

	if p.c.Peek() == '@' && p.c.PeekAt(1) != '{' {
		stmt, err := p.parseAtStatement(false, start)
		if err != nil {
			return nil, err
		}
		return stmt.(RuleBody), nil
	}

	if looksLikeEachCall(p.c.Rest()) {
		return p.parseEach(start)
	}

	if p.c.Peek() == '.' || p.c.Peek() == '#' {
		if stmt, ok, err := p.tryParseMixinHead(); err != nil {
			return nil, err
		} else if ok {
			return stmt.(RuleBody), nil
		}
	}

	// Declaration vs nested rule: scan ahead for whichever of '{' or ';'/'}'
	// comes first at depth 0, without consuming.
	if isDeclarationAhead(p.c.Rest()) {
		return p.parseDeclaration(start)
	}

	stmt, err := p.parseRuleSet(start)
	if err != nil {
		return nil, err
	}
	return stmt.(RuleBody), nil
}

func looksLikeEachCall(rest string) bool {
	return strings.HasPrefix(rest, "each(") || strings.HasPrefix(rest, "each (")
}

// parseEach parses the supplemental `each(@list, @item, { ... });`
// construct. The second argument (loop variable name) is optional; it
// defaults to "value" when omitted, matching the implicit @value binding
// LESS's real each() provides.
func (p *Parser) parseEach(start int) (RuleBody, error) {
	p.c.readIdent() // "each"
	p.c.SkipWhitespaceAndComments()
	if err := p.c.ExpectChar('('); err != nil {
		return nil, err
	}
	listVal, err := p.readValue(",)")
	if err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()

	varName := "value"
	if p.c.Peek() == ',' {
		p.c.Advance()
		p.c.SkipWhitespaceAndComments()
		if p.c.Peek() == '@' {
			p.c.Advance()
			varName = p.c.readIdent()
			p.c.SkipWhitespaceAndComments()
			if p.c.Peek() == ',' {
				p.c.Advance()
				p.c.SkipWhitespaceAndComments()
			}
		}
	}

	if p.c.Peek() != '{' {
		return nil, errAt(p.c.Pos(), "expected `{` in each() body")
	}
	body, err := p.parseBraceBody()
	if err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	if err := p.c.ExpectChar(')'); err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	if err := p.c.ExpectChar(';'); err != nil {
		return nil, err
	}
	return &Each{ListExpr: listVal, VarName: varName, Body: body, Pos: start}, nil
}

// parseExtend parses "&:extend(selector [all]);".
func (p *Parser) parseExtend(start int) (RuleBody, error) {
	p.c.MatchString("&:extend")
	inner, err := p.readParenGroup()
	if err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	if err := p.c.ExpectChar(';'); err != nil {
		return nil, err
	}
	inner = strings.TrimSpace(inner)
	all := false
	if strings.HasSuffix(inner, " all") {
		all = true
		inner = strings.TrimSpace(strings.TrimSuffix(inner, "all"))
	}
	return &Extend{Selector: inner, All: all, Pos: start}, nil
}

// parseDeclaration parses "property: value [!important];".
func (p *Parser) parseDeclaration(start int) (RuleBody, error) {
	propStart := p.c.Pos()
	for !p.c.Eof() && p.c.Peek() != ':' {
		if p.c.Peek() == '@' && p.c.PeekAt(1) == '{' {
			p.c.Advance()
			p.c.Advance()
			for !p.c.Eof() && p.c.Peek() != '}' {
				p.c.Advance()
			}
			if !p.c.Eof() {
				p.c.Advance()
			}
			continue
		}
		p.c.Advance()
	}
	property := strings.TrimSpace(p.c.Source()[propStart:p.c.Pos()])
	if err := p.c.ExpectChar(':'); err != nil {
		return nil, err
	}
	p.c.SkipWhitespaceAndComments()
	val, err := p.readValue(";}")
	if err != nil {
		return nil, err
	}
	val, important := stripImportant(val)
	p.c.SkipWhitespaceAndComments()
	if p.c.Peek() == ';' {
		p.c.Advance()
	}
	return &Declaration{Property: property, Value: val, Important: important, Pos: start}, nil
}

// isDeclarationAhead looks ahead (without consuming) to decide whether the
// upcoming rule-body item is a Declaration or a NestedRule. A Declaration
// always terminates with ';' or the enclosing block's '}' (with no
// semicolon before the last item); a NestedRule always opens its own '{'
// first. This holds regardless of whether the leading text contains a ':'
// (a property name never needs one to disambiguate — pseudo-selectors like
// ":hover" and "&:extend(...)" are routed to their own cases before this
// check runs).
func isDeclarationAhead(rest string) bool {
	depth := 0
	inString := byte(0)
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if inString != 0 {
			if ch == '\\' {
				i++
				continue
			}
			if ch == inString {
				inString = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = ch
		case '@':
			// `@{name}` interpolation braces are not a block opener.
			if i+1 < len(rest) && rest[i+1] == '{' {
				if end := strings.Index(rest[i:], "}"); end >= 0 {
					i += end
				}
			}
		case '(':
			depth++
		case ')':
			depth--
		case '{':
			if depth == 0 {
				return false
			}
		case ';', '}':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// stripImportant removes a trailing "!important" (any casing/spacing) from
// a Value's final literal piece, reporting whether it was present.
func stripImportant(v Value) (Value, bool) {
	if len(v.Pieces) == 0 {
		return v, false
	}
	last := &v.Pieces[len(v.Pieces)-1]
	if last.Kind != PieceLiteral {
		return v, false
	}
	trimmed := strings.TrimRight(last.Text, " \t\r\n")
	lower := strings.ToLower(trimmed)
	if !strings.HasSuffix(lower, "!important") {
		last.Text = trimmed
		return v, false
	}
	trimmed = strings.TrimRight(trimmed[:len(trimmed)-len("!important")], " \t\r\n")
	if trimmed == "" {
		v.Pieces = v.Pieces[:len(v.Pieces)-1]
	} else {
		last.Text = trimmed
	}
	return v, true
}

// readValue reads a Value, stopping (without consuming) at the first byte
// in terminators found at parenthesis depth 0 outside of a string literal.
// `@name` and `@{name}` sequences become VariableRef pieces; everything
// else accumulates as Literal pieces.
func (p *Parser) readValue(terminators string) (Value, error) {
	var pieces []ValuePiece
	var lit []byte
	depth := 0

	flush := func() {
		if len(lit) > 0 {
			pieces = append(pieces, ValuePiece{Kind: PieceLiteral, Text: string(lit)})
			lit = lit[:0]
		}
	}

	for !p.c.Eof() {
		ch := p.c.Peek()
		if depth == 0 && strings.Index(terminators, string(ch)) >= 0 {
			break
		}
		switch ch {
		case '(':
			depth++
			lit = append(lit, p.c.Advance())
		case ')':
			depth--
			lit = append(lit, p.c.Advance())
		case '\'', '"':
			s, err := p.readQuotedString()
			if err != nil {
				return Value{}, err
			}
			lit = append(lit, s...)
		case '@':
			if p.c.PeekAt(1) == '{' {
				flush()
				p.c.Advance()
				p.c.Advance()
				nameStart := p.c.Pos()
				for !p.c.Eof() && p.c.Peek() != '}' {
					p.c.Advance()
				}
				name := p.c.Source()[nameStart:p.c.Pos()]
				if err := p.c.ExpectChar('}'); err != nil {
					return Value{}, err
				}
				pieces = append(pieces, ValuePiece{Kind: PieceVariableRef, Text: name})
				continue
			}
			if isIdentStart(p.c.PeekAt(1)) {
				flush()
				p.c.Advance()
				name := p.c.readIdent()
				pieces = append(pieces, ValuePiece{Kind: PieceVariableRef, Text: name})
				continue
			}
			lit = append(lit, p.c.Advance())
		default:
			lit = append(lit, p.c.Advance())
		}
	}
	flush()
	return Value{Pieces: pieces}, nil
}

// readQuotedString consumes a '...' or "..." string literal (honoring
// backslash escapes) and returns it including its delimiting quotes.
func (p *Parser) readQuotedString() (string, error) {
	start := p.c.Pos()
	quote := p.c.Advance()
	for !p.c.Eof() {
		ch := p.c.Peek()
		if ch == '\\' {
			p.c.Advance()
			if !p.c.Eof() {
				p.c.Advance()
			}
			continue
		}
		if ch == quote {
			p.c.Advance()
			return p.c.Source()[start:p.c.Pos()], nil
		}
		p.c.Advance()
	}
	return "", errAt(start, "unterminated string")
}

// readParenGroup consumes a balanced '(' ... ')' group (honoring nested
// parens and string literals) and returns its inner text.
func (p *Parser) readParenGroup() (string, error) {
	start := p.c.Pos()
	if err := p.c.ExpectChar('('); err != nil {
		return "", err
	}
	depth := 1
	innerStart := p.c.Pos()
	for !p.c.Eof() {
		ch := p.c.Peek()
		switch ch {
		case '(':
			depth++
			p.c.Advance()
		case ')':
			depth--
			if depth == 0 {
				inner := p.c.Source()[innerStart:p.c.Pos()]
				p.c.Advance()
				return inner, nil
			}
			p.c.Advance()
		case '\'', '"':
			if _, err := p.readQuotedString(); err != nil {
				return "", err
			}
		default:
			p.c.Advance()
		}
	}
	return "", errAt(start, "unterminated parenthesized group")
}

// splitTopLevel splits s on sep, ignoring occurrences inside parentheses or
// string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var cur []byte
	depth := 0
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString != 0 {
			cur = append(cur, ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				cur = append(cur, s[i])
				continue
			}
			if ch == inString {
				inString = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = ch
			cur = append(cur, ch)
		case '(':
			depth++
			cur = append(cur, ch)
		case ')':
			depth--
			cur = append(cur, ch)
		default:
			if ch == sep && depth == 0 {
				parts = append(parts, string(cur))
				cur = cur[:0]
			} else {
				cur = append(cur, ch)
			}
		}
	}
	parts = append(parts, string(cur))
	return parts
}

// parseMixinParams parses a mixin definition's parenthesized parameter
// list text ("@a, @b: 10px") into MixinParam values.
func parseMixinParams(raw string) ([]MixinParam, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var params []MixinParam
	for _, seg := range splitTopLevel(raw, ',') {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if !strings.HasPrefix(seg, "@") {
			// Non-@ positional guard-like params (e.g. "...") are not
			// supported; skip rather than fail hard.
			continue
		}
		seg = seg[1:]
		if idx := strings.Index(seg, ":"); idx >= 0 {
			name := strings.TrimSpace(seg[:idx])
			defStr := strings.TrimSpace(seg[idx+1:])
			p := &Parser{c: NewCursor(defStr)}
			val, err := p.readValue("")
			if err != nil {
				return nil, err
			}
			params = append(params, MixinParam{Name: name, Default: &val})
		} else {
			params = append(params, MixinParam{Name: strings.TrimSpace(seg)})
		}
	}
	return params, nil
}

// parseMixinArgs parses a mixin call's parenthesized argument list text
// into MixinArgument values. A segment that is itself a brace block is a
// detached-ruleset argument.
func parseMixinArgs(raw string) ([]MixinArgument, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var args []MixinArgument
	for _, seg := range splitTopLevel(raw, ',') {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			p := &Parser{c: NewCursor(seg)}
			body, err := p.parseBraceBody()
			if err != nil {
				return nil, err
			}
			args = append(args, MixinArgument{Ruleset: body})
			continue
		}
		p := &Parser{c: NewCursor(seg)}
		val, err := p.readValue("")
		if err != nil {
			return nil, err
		}
		args = append(args, MixinArgument{Value: &val})
	}
	return args, nil
}
