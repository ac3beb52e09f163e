package lexer

import (
	"strings"

	"a68/internal/diag"
	"a68/internal/token"
)

// scanString reads "..." where "" stands for one quote. A string ends at
// the end of its line.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted(token.RowCharDenotation)
}

func (lx *Lexer) scanQuoted(kind token.Kind) token.Token {
	start := lx.cur.mark()
	lx.cur.bump()
	var b strings.Builder
	for {
		ch := lx.cur.peek()
		switch {
		case ch == '\n' || ch == 0:
			tok := lx.emit(kind, start, b.String())
			lx.report(diag.SevSyntax, diag.LexUnterminatedString, tok.Span, "string denotation is not terminated")
			return tok
		case ch == '"' && lx.cur.peekAt(1) == '"':
			lx.cur.bump()
			lx.cur.bump()
			b.WriteByte('"')
		case ch == '"':
			lx.cur.bump()
			return lx.emit(kind, start, b.String())
		default:
			b.WriteByte(lx.cur.bump())
		}
	}
}

// openFormat reads the $ that starts a format text.
func (lx *Lexer) openFormat() token.Token {
	start := lx.cur.mark()
	lx.cur.bump()
	lx.inFormat = true
	lx.formatStart = start
	lx.formatDepth = 0
	return lx.emit(token.FormatDelimiter, start, "$")
}

// scanFormatItem reads one item of a format text. Format texts may span
// lines; the closing $ leaves format mode.
func (lx *Lexer) scanFormatItem() (token.Token, bool) {
	lx.skipBlanks()
	if lx.cur.eof() {
		lx.inFormat = false
		sp := lx.cur.spanFrom(lx.formatStart)
		lx.report(diag.SevSyntax, diag.LexUnterminatedFormat, sp, "format text is not closed by %s", "$")
		return token.Token{}, false
	}
	start := lx.cur.mark()
	switch lx.cur.peek() {
	case '$':
		lx.cur.bump()
		lx.inFormat = false
		return lx.emit(token.FormatDelimiter, start, "$"), true
	case '(':
		lx.cur.bump()
		lx.formatDepth++
		return lx.emit(token.FormatOpen, start, "("), true
	case ')':
		lx.cur.bump()
		lx.formatDepth--
		return lx.emit(token.FormatClose, start, ")"), true
	case ',':
		lx.cur.bump()
		return lx.emit(token.Comma, start, ","), true
	case '"':
		return lx.scanQuoted(token.FormatItem), true
	}
	var b strings.Builder
	for {
		ch := lx.cur.peek()
		if ch == 0 || isBlank(ch) || strings.IndexByte("$(),\"", ch) >= 0 {
			break
		}
		b.WriteByte(lx.cur.bump())
	}
	return lx.emit(token.FormatItem, start, b.String()), true
}
