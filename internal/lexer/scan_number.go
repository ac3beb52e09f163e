package lexer

import (
	"strings"

	"a68/internal/bignum"
	"a68/internal/diag"
	"a68/internal/token"
)

// scanNumber reads an integral, real or bits denotation.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cur.mark()
	var b strings.Builder
	lx.digits(&b)

	// bits: radix r digits
	if b.Len() > 0 && lx.cur.peek() == 'r' && isAlnum(lx.cur.peekAt(1)) {
		b.WriteByte(lx.cur.bump())
		for isAlnum(lx.cur.peek()) {
			b.WriteByte(lx.cur.bump())
		}
		tok := lx.emit(token.BitsDenotation, start, b.String())
		if _, _, err := bignum.ParseBits(tok.Text); err != nil {
			lx.report(diag.SevError, diag.LexBadDenotation, tok.Span, "bad bits denotation %s", tok.Text)
		}
		return tok
	}

	kind := token.IntDenotation
	if lx.cur.peek() == '.' && isDigit(lx.cur.peekAt(1)) {
		kind = token.RealDenotation
		b.WriteByte(lx.cur.bump())
		lx.digits(&b)
	}
	if lx.exponentAhead() {
		kind = token.RealDenotation
		lx.cur.bump()
		b.WriteByte('e')
		if c := lx.cur.peek(); c == '+' || c == '-' {
			b.WriteByte(lx.cur.bump())
		}
		lx.digits(&b)
	}
	return lx.emit(kind, start, b.String())
}

func (lx *Lexer) digits(b *strings.Builder) {
	for isDigit(lx.cur.peek()) {
		b.WriteByte(lx.cur.bump())
	}
}

// exponentAhead reports whether an exponent part e, E or \ follows.
func (lx *Lexer) exponentAhead() bool {
	switch lx.cur.peek() {
	case 'e', 'E', '\\':
	default:
		return false
	}
	next := lx.cur.peekAt(1)
	if next == '+' || next == '-' {
		next = lx.cur.peekAt(2)
	}
	return isDigit(next)
}
