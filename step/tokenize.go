package step

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meshgrid/stepmesh/errors"
)

// Tokenize lexes one entity's raw argument span into a flat list of
// top-level tokens, nesting lists and typed values. base is the byte offset
// of the span within the source file, used to tag syntax errors with
// absolute offsets.
//
// Tokenize is a pure function with no shared state and is safe to call
// concurrently across different entities.
func Tokenize(args []byte, base int64) ([]Token, error) {
	lx := &lexer{data: args, base: base}
	toks, err := lx.values(0)
	if err != nil {
		return nil, err
	}
	lx.skipSpace()
	if lx.pos < len(lx.data) {
		return nil, lx.errf("trailing input after argument list")
	}
	return toks, nil
}

type lexer struct {
	data []byte
	base int64
	pos  int
}

func (lx *lexer) errf(format string, a ...any) error {
	return errors.Syntax(lx.base+int64(lx.pos), fmt.Sprintf(format, a...))
}

// values parses a comma-separated value sequence until end of input
// (depth 0) or a closing paren (depth > 0). The closing paren is consumed
// by the caller.
func (lx *lexer) values(depth int) ([]Token, error) {
	var out []Token
	lx.skipSpace()
	if lx.pos >= len(lx.data) || (depth > 0 && lx.data[lx.pos] == ')') {
		return out, nil // empty list
	}
	for {
		tok, err := lx.value()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)

		lx.skipSpace()
		if lx.pos >= len(lx.data) {
			return out, nil
		}
		switch lx.data[lx.pos] {
		case ',':
			lx.pos++
			lx.skipSpace()
		case ')':
			if depth == 0 {
				return nil, lx.errf("unbalanced ')'")
			}
			return out, nil
		default:
			return nil, lx.errf("expected ',' or ')'")
		}
	}
}

func (lx *lexer) value() (Token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.data) {
		return Token{}, lx.errf("unexpected end of arguments")
	}

	c := lx.data[lx.pos]
	switch {
	case c == '$':
		lx.pos++
		return Token{Kind: TokenNull}, nil

	case c == '*':
		lx.pos++
		return Token{Kind: TokenDerived}, nil

	case c == '#':
		return lx.reference()

	case c == '\'':
		return lx.quotedString()

	case c == '.':
		return lx.enum()

	case c == '(':
		lx.pos++
		items, err := lx.values(1)
		if err != nil {
			return Token{}, err
		}
		if lx.pos >= len(lx.data) || lx.data[lx.pos] != ')' {
			return Token{}, lx.errf("unterminated list")
		}
		lx.pos++
		return Token{Kind: TokenList, List: items}, nil

	case c == '-' || c == '+' || isDigit(c):
		return lx.number()

	case isIdentStart(c):
		return lx.typed()
	}

	return Token{}, lx.errf("unexpected byte %q", string(c))
}

func (lx *lexer) reference() (Token, error) {
	lx.pos++ // '#'
	start := lx.pos
	for lx.pos < len(lx.data) && isDigit(lx.data[lx.pos]) {
		lx.pos++
	}
	if lx.pos == start {
		return Token{}, lx.errf("expected digits after '#'")
	}
	id, err := strconv.ParseUint(string(lx.data[start:lx.pos]), 10, 32)
	if err != nil {
		return Token{}, lx.errf("entity id out of range")
	}
	return Token{Kind: TokenRef, Ref: EntityID(id)}, nil
}

// quotedString lexes a single-quoted string. An embedded quote is escaped by
// doubling it: 'it''s'.
func (lx *lexer) quotedString() (Token, error) {
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if c == '\'' {
			if lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '\'' {
				b.WriteByte('\'')
				lx.pos += 2
				continue
			}
			lx.pos++
			return Token{Kind: TokenString, Str: b.String()}, nil
		}
		b.WriteByte(c)
		lx.pos++
	}
	return Token{}, lx.errf("unterminated string")
}

// enum lexes `.NAME.`. A token surrounded by dots is always an enum, never a
// typed value.
func (lx *lexer) enum() (Token, error) {
	lx.pos++ // leading dot
	start := lx.pos
	for lx.pos < len(lx.data) && isEnumChar(lx.data[lx.pos]) {
		lx.pos++
	}
	if lx.pos == start || lx.pos >= len(lx.data) || lx.data[lx.pos] != '.' {
		return Token{}, lx.errf("malformed enumeration")
	}
	name := string(lx.data[start:lx.pos])
	lx.pos++ // trailing dot
	return Token{Kind: TokenEnum, Str: name}, nil
}

func (lx *lexer) number() (Token, error) {
	start := lx.pos
	if c := lx.data[lx.pos]; c == '-' || c == '+' {
		lx.pos++
	}
	digits := 0
	for lx.pos < len(lx.data) && isDigit(lx.data[lx.pos]) {
		lx.pos++
		digits++
	}
	if digits == 0 {
		return Token{}, lx.errf("expected digits in number")
	}

	isFloat := false
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '.' {
		isFloat = true
		lx.pos++
		for lx.pos < len(lx.data) && isDigit(lx.data[lx.pos]) {
			lx.pos++
		}
	}
	if lx.pos < len(lx.data) && (lx.data[lx.pos] == 'E' || lx.data[lx.pos] == 'e') {
		isFloat = true
		lx.pos++
		if lx.pos < len(lx.data) && (lx.data[lx.pos] == '-' || lx.data[lx.pos] == '+') {
			lx.pos++
		}
		expDigits := 0
		for lx.pos < len(lx.data) && isDigit(lx.data[lx.pos]) {
			lx.pos++
			expDigits++
		}
		if expDigits == 0 {
			return Token{}, lx.errf("expected digits in exponent")
		}
	}

	text := string(lx.data[start:lx.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, lx.errf("malformed float %q", text)
		}
		return Token{Kind: TokenFloat, Float: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, lx.errf("integer %q out of range", text)
	}
	return Token{Kind: TokenInt, Int: n}, nil
}

// typed lexes `NAME(args)`. A bare identifier immediately followed by '(' is
// always a typed value; a bare identifier with no argument list matches no
// token variant and is a syntax error.
func (lx *lexer) typed() (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.data) && isIdentChar(lx.data[lx.pos]) {
		lx.pos++
	}
	name := string(lx.data[start:lx.pos])
	if lx.pos >= len(lx.data) || lx.data[lx.pos] != '(' {
		return Token{}, lx.errf("bare identifier %q", name)
	}
	lx.pos++
	args, err := lx.values(1)
	if err != nil {
		return Token{}, err
	}
	if lx.pos >= len(lx.data) || lx.data[lx.pos] != ')' {
		return Token{}, lx.errf("unterminated typed value %q", name)
	}
	lx.pos++
	return Token{Kind: TokenTyped, Str: name, List: args}, nil
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.data) {
		switch lx.data[lx.pos] {
		case ' ', '\t', '\r', '\n':
			lx.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isEnumChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
