package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/token"
)

// scanUpperBold reads a bold word in upper stropping.
func (lx *Lexer) scanUpperBold() (token.Token, bool) {
	start := lx.cur.mark()
	word := lx.readUpperRun()
	return lx.boldWord(start, word)
}

func (lx *Lexer) readUpperRun() string {
	var b strings.Builder
	for {
		ch := lx.cur.peek()
		if !isUpper(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		b.WriteByte(lx.cur.bump())
	}
	return b.String()
}

// scanQuotedBold reads 'word' in quote stropping.
func (lx *Lexer) scanQuotedBold() (token.Token, bool) {
	start := lx.cur.mark()
	lx.cur.bump()
	var b strings.Builder
	for isAlnum(lx.cur.peek()) || lx.cur.peek() == '_' {
		b.WriteByte(lx.cur.bump())
	}
	if !lx.cur.eat('\'') || b.Len() == 0 {
		sp := lx.cur.spanFrom(start)
		lx.report(diag.SevError, diag.LexUnworthyChar, sp, "quoted bold word %s is not terminated", "'"+b.String())
		if b.Len() == 0 {
			return token.Token{}, false
		}
	}
	return lx.boldWord(start, strings.ToUpper(b.String()))
}

// boldWord classifies a bold word: comment and pragmat openers are consumed
// here, reserved words become symbols and anything else is a bold tag.
func (lx *Lexer) boldWord(start position, word string) (token.Token, bool) {
	switch {
	case token.IsCommentWord(word):
		lx.skipComment(start, word)
		return token.Token{}, false
	case token.IsPragmatWord(word):
		lx.scanPragmat(start, word)
		return token.Token{}, false
	}
	if k, ok := token.LookupBold(word); ok {
		return lx.emit(k, start, word), true
	}
	return lx.emit(token.BoldTag, start, word), true
}

// identifierPart reports whether b may continue an identifier.
func (lx *Lexer) identifierPart(b byte) bool {
	if isDigit(b) || b == '_' || isLower(b) {
		return true
	}
	return lx.conf.Stropping == config.StropQuote && isUpper(b)
}

// scanIdentifier reads a tag. Blanks inside a tag are insignificant:
// "max int" is the identifier maxint.
func (lx *Lexer) scanIdentifier() (token.Token, bool) {
	start := lx.cur.mark()
	var b strings.Builder
	nonASCII := false
	for {
		ch := lx.cur.peek()
		switch {
		case ch >= utf8RuneSelf:
			r, size := utf8.DecodeRuneInString(lx.cur.rest())
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				if b.Len() == 0 {
					p := lx.cur.mark()
					lx.cur.advance(max(size, 1))
					lx.report(diag.SevError, diag.LexUnworthyChar, lx.cur.spanFrom(p), "unworthy character %s", string(r))
					return token.Token{}, false
				}
				return lx.finishIdentifier(start, b.String(), nonASCII), true
			}
			nonASCII = true
			b.WriteRune(r)
			lx.cur.advance(size)
		case b.Len() == 0 && isLetter(ch), b.Len() > 0 && lx.identifierPart(ch):
			b.WriteByte(lx.cur.bump())
		case ch == ' ' || ch == '\t':
			save := lx.cur.mark()
			for lx.cur.peek() == ' ' || lx.cur.peek() == '\t' {
				lx.cur.bump()
			}
			next := lx.cur.peek()
			if lx.identifierPart(next) && next != '_' {
				continue
			}
			lx.cur.reset(save)
			return lx.finishIdentifier(start, b.String(), nonASCII), true
		default:
			return lx.finishIdentifier(start, b.String(), nonASCII), true
		}
	}
}

func (lx *Lexer) finishIdentifier(start position, name string, nonASCII bool) token.Token {
	tok := lx.emit(token.Identifier, start, name)
	if nonASCII {
		lx.portability(tok.Span, "non-ASCII character in tag "+name)
	}
	return tok
}
