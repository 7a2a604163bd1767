// Package parser implements a hand-written recursive-descent parser for the
// expression grammar. The grammar is small enough that a hand-written
// parser suffices without a combinator library; this implementation chooses
// mutual recursion between parseMethod and parseArgument for the grammar's
// self-reference, which gives the same forward-declaration power a
// two-pass combinator setup would without pulling in a combinator
// dependency. Style (a Parser struct carrying position state, errors
// reported with position + description) is grounded on simon-lentz-yammm's
// internal/parse.Parser, without its ANTLR machinery.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/Tangerg/exprflow/errs"
	"github.com/Tangerg/exprflow/rule"
	"github.com/Tangerg/exprflow/value"
)

type parser struct {
	src []rune
	pos int
}

// Parse parses src into a Program: a bare expression when the source starts
// with "@" followed by a function-name letter, otherwise a joined string
// (which may still splice expressions via "@{...}").
func Parse(src string) (*rule.Program, error) {
	p := &parser{src: []rune(src)}
	if p.looksLikeBareExpression() {
		p.advance() // consume leading '@'
		expr, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, p.fail("unexpected trailing input after expression")
		}
		return &rule.Program{Bare: true, Expr: expr}, nil
	}
	segs, err := p.parseJoinedString()
	if err != nil {
		return nil, err
	}
	return &rule.Program{Segments: segs}, nil
}

func (p *parser) looksLikeBareExpression() bool {
	return len(p.src) > 1 && p.src[0] == '@' && isLetter(p.src[1])
}

// --- low-level cursor helpers ---

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.src) {
		return 0
	}
	return p.src[idx]
}

func (p *parser) advance() rune {
	r := p.peek()
	p.pos++
	return r
}

func (p *parser) expect(r rune, what string) error {
	if p.peek() != r {
		return p.fail("expected " + what)
	}
	p.advance()
	return nil
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.advance()
	}
}

func (p *parser) fail(description string) error {
	return errs.NewParseError(p.position(), description)
}

func (p *parser) position() errs.ParsePosition {
	line, col := 1, 1
	for i := 0; i < p.pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return errs.ParsePosition{Offset: p.pos, Line: line, Column: col}
}

func isLetter(r rune) bool { return unicode.IsLetter(r) }
func isDigit(r rune) bool  { return unicode.IsDigit(r) }

// --- joined_string / segment ---

func (p *parser) parseJoinedString() ([]rule.Segment, error) {
	var segs []rule.Segment
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, rule.Segment{Literal: buf.String()})
			buf.Reset()
		}
	}

	for !p.eof() {
		if p.peek() == '@' && p.peekAt(1) == '@' {
			buf.WriteRune('@')
			p.advance()
			p.advance()
			continue
		}
		if p.peek() == '@' && p.peekAt(1) == '{' {
			flush()
			p.advance() // '@'
			p.advance() // '{'
			expr, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			if err := p.expect('}', "'}'"); err != nil {
				return nil, err
			}
			segs = append(segs, rule.Segment{IsExpr: true, Expr: expr})
			continue
		}
		buf.WriteRune(p.advance())
	}
	flush()
	return segs, nil
}

// --- method / function / args ---

func (p *parser) parseMethod() (rule.Rule, error) {
	call, err := p.parseFunctionCall()
	if err != nil {
		return nil, err
	}
	var result rule.Rule = call
	for {
		if p.peek() != '?' && p.peek() != '[' && p.peek() != '.' {
			break
		}
		accessor, err := p.parseAccessor()
		if err != nil {
			return nil, err
		}
		result = rule.AccessValue{Base: result, Accessor: accessor}
	}
	return result, nil
}

func (p *parser) parseFunctionCall() (rule.Rule, error) {
	if !isLetter(p.peek()) {
		return nil, p.fail("expected function name")
	}
	var name strings.Builder
	name.WriteRune(p.advance())
	for isLetter(p.peek()) || isDigit(p.peek()) {
		name.WriteRune(p.advance())
	}
	if err := p.expect('(', "'('"); err != nil {
		return nil, err
	}
	p.skipSpaces()
	var args []rule.Rule
	if p.peek() != ')' {
		for {
			arg, err := p.parseArgument()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpaces()
			if p.peek() == ',' {
				p.advance()
				p.skipSpaces()
				continue
			}
			break
		}
	}
	if err := p.expect(')', "')'"); err != nil {
		return nil, err
	}
	return rule.Call{Name: name.String(), Args: args}, nil
}

func (p *parser) parseArgument() (rule.Rule, error) {
	switch {
	case p.peek() == '\'':
		return p.parseStringLiteral()
	case p.matchesKeyword("true"):
		p.consumeKeyword("true")
		return rule.Constant{Val: value.Bool(true)}, nil
	case p.matchesKeyword("false"):
		p.consumeKeyword("false")
		return rule.Constant{Val: value.Bool(false)}, nil
	case p.peek() == '+' || p.peek() == '-' || isDigit(p.peek()):
		return p.parseNumber()
	case isLetter(p.peek()):
		return p.parseMethod()
	default:
		return nil, p.fail("expected an argument (method, string, number, or boolean)")
	}
}

func (p *parser) matchesKeyword(kw string) bool {
	runes := []rune(kw)
	for i, r := range runes {
		if p.peekAt(i) != r {
			return false
		}
	}
	next := p.peekAt(len(runes))
	return !isLetter(next) && !isDigit(next)
}

func (p *parser) consumeKeyword(kw string) {
	for range kw {
		p.advance()
	}
}

// --- accessor ---

func (p *parser) parseAccessor() (rule.Rule, error) {
	nullable := false
	if p.peek() == '?' {
		nullable = true
		p.advance()
	}
	switch p.peek() {
	case '[':
		p.advance()
		inner, err := p.parseBracketInner()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']', "']'"); err != nil {
			return nil, err
		}
		return rule.Index{Inner: inner, Nullable: nullable}, nil
	case '.':
		p.advance()
		ident, err := p.parseIdentifierRest()
		if err != nil {
			return nil, err
		}
		return rule.Index{Inner: rule.StringLiteral{Val: value.Str(ident)}, Nullable: nullable}, nil
	default:
		return nil, p.fail("expected '[' or '.' after '?'")
	}
}

func (p *parser) parseBracketInner() (rule.Rule, error) {
	switch {
	case p.peek() == '\'':
		return p.parseStringLiteral()
	case isDigit(p.peek()):
		return p.parseInteger()
	case isLetter(p.peek()):
		return p.parseMethod()
	default:
		return nil, p.fail("expected a method, string literal, or integer inside '[...]'")
	}
}

func (p *parser) parseIdentifierRest() (string, error) {
	const forbidden = "[]{}()@,.?"
	var sb strings.Builder
	for !p.eof() && !strings.ContainsRune(forbidden, p.peek()) {
		sb.WriteRune(p.advance())
	}
	if sb.Len() == 0 {
		return "", p.fail("expected an identifier after '.'")
	}
	return sb.String(), nil
}

// --- literals ---

func (p *parser) parseStringLiteral() (rule.Rule, error) {
	if err := p.expect('\'', "opening \"'\""); err != nil {
		return nil, err
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return nil, p.fail("unterminated string literal")
		}
		if p.peek() == '\'' {
			if p.peekAt(1) == '\'' {
				sb.WriteRune('\'')
				p.advance()
				p.advance()
				continue
			}
			p.advance()
			break
		}
		sb.WriteRune(p.advance())
	}
	return rule.StringLiteral{Val: value.Str(sb.String())}, nil
}

func (p *parser) parseInteger() (rule.Rule, error) {
	var sb strings.Builder
	for isDigit(p.peek()) {
		sb.WriteRune(p.advance())
	}
	if sb.Len() == 0 {
		return nil, p.fail("expected an integer")
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return nil, p.fail("integer literal out of range")
	}
	return rule.Constant{Val: value.Int(n)}, nil
}

func (p *parser) parseNumber() (rule.Rule, error) {
	var sb strings.Builder
	if p.peek() == '+' || p.peek() == '-' {
		sb.WriteRune(p.advance())
	}
	digitsStart := sb.Len()
	for isDigit(p.peek()) {
		sb.WriteRune(p.advance())
	}
	if sb.Len() == digitsStart {
		return nil, p.fail("expected a number")
	}
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		sb.WriteRune(p.advance()) // '.'
		for isDigit(p.peek()) {
			sb.WriteRune(p.advance())
		}
		d, err := decimal.NewFromString(sb.String())
		if err != nil {
			return nil, p.fail("invalid decimal literal")
		}
		return rule.Constant{Val: value.Dec(d)}, nil
	}
	n, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return nil, p.fail("integer literal out of range")
	}
	return rule.Constant{Val: value.Int(n)}, nil
}
