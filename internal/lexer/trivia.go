package lexer

import (
	"strings"

	"a68/internal/config"
	"a68/internal/diag"
)

// skipBriefComment skips # ... #.
func (lx *Lexer) skipBriefComment() {
	start := lx.cur.mark()
	lx.cur.bump()
	if lx.conf.Stropping == config.StropQuote {
		lx.portability(lx.cur.spanFrom(start), "brief comment symbol # in quote stropping")
	}
	for !lx.cur.eof() {
		if lx.cur.bump() == '#' {
			return
		}
	}
	lx.report(diag.SevSyntax, diag.LexUnterminatedComment, lx.cur.spanFrom(start), "comment opened by %s is not closed", "#")
}

// skipComment skips a comment whose opener word has been read. Comments do
// not nest: the first occurrence of the opener closes it.
func (lx *Lexer) skipComment(start position, word string) {
	if _, ok := lx.readUntilWord(word); !ok {
		sp := lx.cur.spanFrom(start)
		lx.report(diag.SevSyntax, diag.LexUnterminatedComment, sp, "comment opened by %s is not closed", word)
	}
}

// scanPragmat reads a pragmat and applies its items to the options.
// Items the front end does not know are reported and ignored.
func (lx *Lexer) scanPragmat(start position, word string) {
	text, ok := lx.readUntilWord(word)
	sp := lx.cur.spanFrom(start)
	if !ok {
		lx.report(diag.SevSyntax, diag.LexUnterminatedPragmat, sp, "pragmat opened by %s is not closed", word)
		return
	}
	items := pragmatItems(text)
	for i := 0; i < len(items); i++ {
		item := items[i]
		switch strings.ToLower(item) {
		case "read", "include":
			// the line loader already spliced the file in
			i++
			continue
		}
		if !lx.conf.ApplyPragmat(item) {
			lx.report(diag.SevWarning, diag.LexPragmatIgnored, sp, "pragmat item %s ignored", item)
		}
	}
}

func pragmatItems(text string) []string {
	var out []string
	var b strings.Builder
	inString := false
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"':
			inString = !inString
			b.WriteByte(ch)
		case !inString && isBlank(ch):
			flush()
		default:
			b.WriteByte(ch)
		}
	}
	flush()
	return out
}

// readUntilWord consumes text up to and including the closing word, which
// is matched as a whole bold word of the current regime. It returns the text
// in between.
func (lx *Lexer) readUntilWord(word string) (string, bool) {
	quote := lx.conf.Stropping == config.StropQuote
	var b strings.Builder
	for !lx.cur.eof() {
		ch := lx.cur.peek()
		switch {
		case !quote && isUpper(ch):
			w := lx.readUpperRun()
			if w == word {
				return b.String(), true
			}
			b.WriteString(w)
		case quote && ch == '\'':
			save := lx.cur.mark()
			lx.cur.bump()
			var w strings.Builder
			for isAlnum(lx.cur.peek()) {
				w.WriteByte(lx.cur.bump())
			}
			if lx.cur.peek() == '\'' && strings.ToUpper(w.String()) == word {
				lx.cur.bump()
				return b.String(), true
			}
			lx.cur.reset(save)
			b.WriteByte(lx.cur.bump())
		default:
			b.WriteByte(lx.cur.bump())
		}
	}
	return b.String(), false
}
