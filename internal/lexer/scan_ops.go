package lexer

import (
	"strings"

	"a68/internal/diag"
	"a68/internal/token"
)

// scanSymbol reads punctuation and operator symbols. An operator is a monad
// or nomad optionally followed by one nomad, optionally followed by := or =:
// (so +:= and +=: are single operators).
func (lx *Lexer) scanSymbol() (token.Token, bool) {
	start := lx.cur.mark()
	one := func(k token.Kind) (token.Token, bool) {
		ch := lx.cur.bump()
		return lx.emit(k, start, string(ch)), true
	}
	rest := lx.cur.rest()
	ch := lx.cur.peek()
	switch ch {
	case '(':
		return one(token.Open)
	case ')':
		return one(token.Close)
	case '[':
		return one(token.Sub)
	case ']':
		return one(token.Bus)
	case '{', '}':
		return lx.brace(start, ch)
	case ',':
		return one(token.Comma)
	case ';':
		return one(token.Semicolon)
	case '@':
		return one(token.At)
	case '.':
		return one(token.Point)
	case '|', '!':
		if lx.cur.peekAt(1) == ':' {
			lx.cur.advance(2)
			return lx.emit(token.BarColon, start, "|:"), true
		}
		lx.cur.bump()
		return lx.emit(token.Bar, start, "|"), true
	case ':':
		switch {
		case strings.HasPrefix(rest, ":=:"):
			lx.cur.advance(3)
			return lx.emit(token.Is, start, ":=:"), true
		case strings.HasPrefix(rest, ":/=:"):
			lx.cur.advance(4)
			return lx.emit(token.Isnt, start, ":/=:"), true
		case strings.HasPrefix(rest, ":="):
			lx.cur.advance(2)
			return lx.emit(token.Assign, start, ":="), true
		}
		return one(token.Colon)
	}
	if isMonad(ch) || isNomad(ch) {
		return lx.scanOperator(start), true
	}
	lx.cur.bump()
	sp := lx.cur.spanFrom(start)
	lx.report(diag.SevError, diag.LexUnworthyChar, sp, "unworthy character %s", string(ch))
	return token.Token{}, false
}

func (lx *Lexer) scanOperator(start position) token.Token {
	var b strings.Builder
	b.WriteByte(lx.cur.bump())
	if isNomad(lx.cur.peek()) {
		b.WriteByte(lx.cur.bump())
	}
	text := b.String()
	switch {
	case text == "=":
		return lx.emit(token.Equals, start, text)
	case strings.HasPrefix(lx.cur.rest(), ":=") && !strings.HasPrefix(lx.cur.rest(), ":=:"):
		lx.cur.advance(2)
		text += ":="
	case strings.HasSuffix(text, "=") && len(text) > 1 && lx.cur.peek() == ':' && lx.cur.peekAt(1) != '=':
		lx.cur.bump()
		text += ":"
	}
	return lx.emit(token.Operator, start, text)
}

// brace scans { or }. With the brackets option they are ordinary
// parentheses; otherwise they form their own family and are not portable.
func (lx *Lexer) brace(start position, ch byte) (token.Token, bool) {
	lx.cur.bump()
	open := ch == '{'
	if lx.conf.Brackets {
		if open {
			return lx.emit(token.Open, start, "("), true
		}
		return lx.emit(token.Close, start, ")"), true
	}
	k := token.Occa
	if open {
		k = token.Acco
	}
	tok := lx.emit(k, start, string(ch))
	lx.portability(tok.Span, "brace "+string(ch))
	return tok, true
}
