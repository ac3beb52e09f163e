// Package lexer turns the loader's line records into a flat token list. It
// handles upper and quote stropping, comments and pragmats (which may switch
// the regime mid-file), string denotations, format texts and the refinement
// preprocessor.
package lexer

import (
	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/source"
	"a68/internal/token"
)

// Options configures a Lexer.
type Options struct {
	// Config is updated in place by pragmats; may be nil.
	Config *config.Options
	// Reporter may be nil, in which case problems are dropped but scanning
	// continues.
	Reporter diag.Reporter
}

// Lexer produces tokens one at a time.
type Lexer struct {
	cur  cursor
	opts Options
	conf *config.Options

	inFormat    bool
	formatStart position
	formatDepth int
	look        *token.Token
}

// New creates a lexer over lines.
func New(lines []source.Line, opts Options) *Lexer {
	conf := opts.Config
	if conf == nil {
		def := config.Default()
		conf = &def
	}
	return &Lexer{cur: newCursor(lines), opts: opts, conf: conf}
}

// Tokenize scans all of lines.
func Tokenize(lines []source.Line, opts Options) []token.Token {
	lx := New(lines, opts)
	out := make([]token.Token, 0, 16*len(lines)+1)
	for {
		tok, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Next returns the next token; ok is false at the end of input.
func (lx *Lexer) Next() (token.Token, bool) {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok, true
	}
	for {
		if lx.inFormat {
			if tok, ok := lx.scanFormatItem(); ok {
				return tok, true
			}
			if lx.cur.eof() {
				return token.Token{}, false
			}
			continue
		}
		lx.skipBlanks()
		if lx.cur.eof() {
			return token.Token{}, false
		}
		tok, ok := lx.scanToken()
		if ok {
			return lx.joinGoTo(tok), true
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() (token.Token, bool) {
	tok, ok := lx.Next()
	if ok {
		lx.look = &tok
	}
	return tok, ok
}

// scanToken scans one lexeme. It returns false when the lexeme was a
// comment or pragmat, or an unworthy character that was skipped.
func (lx *Lexer) scanToken() (token.Token, bool) {
	ch := lx.cur.peek()
	quote := lx.conf.Stropping == config.StropQuote
	switch {
	case ch == '#':
		lx.skipBriefComment()
		return token.Token{}, false
	case quote && ch == '\'':
		return lx.scanQuotedBold()
	case !quote && isUpper(ch):
		return lx.scanUpperBold()
	case isLetter(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentifier()
	case isDigit(ch):
		return lx.scanNumber(), true
	case ch == '.' && isDigit(lx.cur.peekAt(1)):
		return lx.scanNumber(), true
	case ch == '"':
		return lx.scanString(), true
	case ch == '$':
		return lx.openFormat(), true
	}
	return lx.scanSymbol()
}

// joinGoTo turns the two words GO TO into one GOTO symbol.
func (lx *Lexer) joinGoTo(tok token.Token) token.Token {
	if tok.Kind != token.BoldTag || tok.Text != token.WordGo {
		return tok
	}
	next, ok := lx.Next()
	if ok && next.Kind == token.To {
		return token.Token{Kind: token.Goto, Span: tok.Span.Cover(next.Span), Text: "GOTO", Line: tok.Line}
	}
	if ok {
		lx.look = &next
	}
	return tok
}

func (lx *Lexer) emit(kind token.Kind, start position, text string) token.Token {
	return token.Token{
		Kind: kind,
		Span: lx.cur.spanFrom(start),
		Text: text,
		Line: lx.cur.lineOf(start),
	}
}

func (lx *Lexer) report(sev diag.Severity, code diag.Code, sp source.Span, template string, args ...string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.NewReportBuilder(lx.opts.Reporter, sev, code, sp, template, args...).Emit()
}

func (lx *Lexer) portability(sp source.Span, what string) {
	lx.report(diag.SevWarning, diag.LexPortability, sp, "%s is not portable", what)
}
