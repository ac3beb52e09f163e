package lexer

import (
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

func isUpper(b byte) bool  { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool  { return b >= 'a' && b <= 'z' }
func isLetter(b byte) bool { return isUpper(b) || isLower(b) }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isAlnum(b byte) bool  { return isLetter(b) || isDigit(b) }
func isBlank(b byte) bool  { return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' }

// monads may start an operator; nomads may start or continue one.
func isMonad(b byte) bool {
	switch b {
	case '+', '-', '?', '%', '^', '&', '~':
		return true
	}
	return false
}

func isNomad(b byte) bool {
	switch b {
	case '<', '>', '/', '=', '*':
		return true
	}
	return false
}

func (lx *Lexer) skipBlanks() {
	for !lx.cur.eof() && isBlank(lx.cur.peek()) {
		lx.cur.bump()
	}
}
