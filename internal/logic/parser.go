package logic

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError reports a malformed statement.
type ParseError struct {
	Line   int // 1-indexed program line, 0 when a single statement was parsed
	Column int // 1-indexed byte column within the line, 0 if not positional
	Msg    string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Column > 0 {
		fmt.Fprintf(&b, " at column %d", e.Column)
	}
	return b.String()
}

// parser is a recursive descent parser working directly on the characters
// of a single statement.
type parser struct {
	text   string // statement with surrounding whitespace removed
	pos    int    // current byte offset into text
	offset int    // bytes of leading whitespace removed from the input
}

func newParser(input string) *parser {
	trimmedLeft := strings.TrimLeftFunc(input, unicode.IsSpace)
	return &parser{
		text:   strings.TrimRightFunc(trimmedLeft, unicode.IsSpace),
		offset: len(input) - len(trimmedLeft),
	}
}

// Parse parses a single statement.
//
// Empty input and comment lines are rejected; use ParseAll for programs
// that mix statements with blank lines and comments.
func Parse(text string) (Expr, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, &ParseError{Msg: "empty or comment line"}
	}
	return newParser(text).parse()
}

// ParseAll parses a newline-separated program and returns its statements
// in source order. Blank lines and lines starting with '#' are skipped.
// Parsing stops at the first malformed line.
func ParseAll(text string) ([]Expr, error) {
	prog, err := ParseProgram(text)
	if err != nil {
		return nil, err
	}
	return prog.Exprs(), nil
}

// ParseProgram is like ParseAll but keeps the line number of every
// statement.
func ParseProgram(text string) (*Program, error) {
	prog := &Program{}
	for i, line := range strings.Split(text, "\n") {
		if isSkippable(line) {
			continue
		}

		expr, err := Parse(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = i + 1
				return nil, pe
			}
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		prog.Statements = append(prog.Statements, Statement{
			Expr:   expr,
			Line:   i + 1,
			Column: len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace)) + 1,
		})
	}
	return prog, nil
}

// isSkippable reports whether a program line holds no statement.
func isSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func (p *parser) parse() (Expr, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if !p.atEnd() {
		return nil, p.errorf(p.pos, "unexpected characters %q", p.text[p.pos:])
	}
	return expr, nil
}

// parseExpr parses the equivalence level. An implication or equivalence
// is recognized at most once, so `a -> b -> c` leaves `-> c` unconsumed.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	switch {
	case p.peek(3) == "<->":
		p.consume(3)
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return Iff(left, right), nil
	case p.peek(2) == "->":
		p.consume(2)
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return Implies(left, right), nil
	}
	return left, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()
		if p.peek(1) != "|" {
			return left, nil
		}
		p.consume(1)
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()
		if p.peek(1) != "&" {
			return left, nil
		}
		p.consume(1)
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
}

func (p *parser) parseNot() (Expr, error) {
	p.skipWhitespace()
	if p.peek(1) != "!" {
		return p.parsePrimary()
	}
	p.consume(1)
	inner, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return Not(inner), nil
}

func (p *parser) parsePrimary() (Expr, error) {
	p.skipWhitespace()
	if p.atEnd() {
		return nil, p.errorf(p.pos, "unexpected end of input")
	}

	if p.peek(1) != "(" {
		return p.parseIdentifier()
	}

	p.consume(1)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.peek(1) != ")" {
		return nil, p.errorf(p.pos, "expected ')'")
	}
	p.consume(1)
	return expr, nil
}

// parseIdentifier scans a run of letters, digits and underscores and only
// then checks it against the identifier pattern, so `Foo` and `1abc` are
// reported as invalid identifiers rather than unexpected characters.
func (p *parser) parseIdentifier() (Expr, error) {
	start := p.pos
	for p.pos < len(p.text) {
		r, size := utf8.DecodeRuneInString(p.text[p.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		p.pos += size
	}

	if start == p.pos {
		r, _ := utf8.DecodeRuneInString(p.text[p.pos:])
		return nil, p.errorf(p.pos, "expected identifier, found %q", r)
	}

	name := p.text[start:p.pos]
	if !IsIdentifier(name) {
		return nil, p.errorf(start, "invalid identifier %q: must be snake_case", name)
	}
	return VarExpr{name: name}, nil
}

func (p *parser) peek(n int) string {
	end := p.pos + n
	if end > len(p.text) {
		end = len(p.text)
	}
	return p.text[p.pos:end]
}

func (p *parser) consume(n int) {
	p.pos += n
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.text)
}

func (p *parser) column(pos int) int {
	return p.offset + pos + 1
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Column: p.column(pos),
		Msg:    fmt.Sprintf(format, args...),
	}
}
