package lexer_test

import (
	"strings"
	"testing"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/lexer"
	"a68/internal/source"
	"a68/internal/token"
)

// scan токенизирует src и возвращает токены вместе с собранными диагностиками.
func scan(t *testing.T, src string, conf *config.Options) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.a68", []byte(src))
	bag := diag.NewBag(0)
	if conf == nil {
		def := config.Default()
		conf = &def
	}
	toks := lexer.Tokenize(source.Lines(fs.Get(id)), lexer.Options{Config: conf, Reporter: diag.BagReporter{Bag: bag}})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, toks []token.Token, want ...token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), toks, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], want[i], toks)
		}
	}
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestUpperStropping(t *testing.T) {
	toks, bag := scan(t, "BEGIN INT i = 1, j = 2; print (i+j) END", nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks,
		token.Begin, token.BoldTag, token.Identifier, token.Equals, token.IntDenotation,
		token.Comma, token.Identifier, token.Equals, token.IntDenotation, token.Semicolon,
		token.Identifier, token.Open, token.Identifier, token.Operator, token.Identifier,
		token.Close, token.End)
	if toks[1].Text != "INT" || toks[13].Text != "+" {
		t.Fatalf("bad texts: %q %q", toks[1].Text, toks[13].Text)
	}
}

func TestBlanksInsideTags(t *testing.T) {
	toks, _ := scan(t, "INT max int = 2; print (max int)", nil)
	if toks[1].Kind != token.Identifier || toks[1].Text != "maxint" {
		t.Fatalf("expected maxint, got %v", toks[1])
	}
	if toks[7].Text != "maxint" {
		t.Fatalf("expected maxint in call, got %v", toks[7])
	}
}

func TestContinuationLine(t *testing.T) {
	toks, _ := scan(t, "INT max\\\nint = 1", nil)
	expectKinds(t, toks, token.BoldTag, token.Identifier, token.Equals, token.IntDenotation)
	if toks[1].Text != "maxint" {
		t.Fatalf("continuation not joined: %q", toks[1].Text)
	}
}

func TestQuoteStropping(t *testing.T) {
	conf := config.Default()
	conf.Stropping = config.StropQuote
	toks, bag := scan(t, "'begin' 'int' Count := 1; 'skip' 'end'", &conf)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Begin, token.BoldTag, token.Identifier, token.Assign,
		token.IntDenotation, token.Semicolon, token.Skip, token.End)
	if toks[1].Text != "INT" || toks[2].Text != "Count" {
		t.Fatalf("bad texts: %v", toks)
	}
}

func TestPragmatSwitchesStropping(t *testing.T) {
	conf := config.Default()
	toks, bag := scan(t, "PR quote PR 'BEGIN' 'SKIP' 'END'", &conf)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Begin, token.Skip, token.End)
	if conf.Stropping != config.StropQuote {
		t.Fatalf("pragmat did not update options")
	}
}

func TestUnknownPragmatItem(t *testing.T) {
	_, bag := scan(t, "PR frobnicate PR SKIP", nil)
	if !hasCode(bag, diag.LexPragmatIgnored) {
		t.Fatalf("expected pragmat warning, got %v", codes(bag))
	}
}

func TestComments(t *testing.T) {
	src := "BEGIN CO a COMPL remark CO SKIP # brief # ;\nCOMMENT\nspans lines\nCOMMENT SKIP END"
	toks, bag := scan(t, src, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Begin, token.Skip, token.Semicolon, token.Skip, token.End)
}

func TestUnterminatedComment(t *testing.T) {
	_, bag := scan(t, "SKIP CO never closed", nil)
	if got := codes(bag); len(got) != 1 || got[0] != diag.LexUnterminatedComment {
		t.Fatalf("got %v", got)
	}
}

func TestStringDenotations(t *testing.T) {
	toks, bag := scan(t, `print ("say ""hi""")`, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if toks[2].Kind != token.RowCharDenotation || toks[2].Text != `say "hi"` {
		t.Fatalf("bad string: %v", toks[2])
	}

	_, bag = scan(t, "\"open\nSKIP", nil)
	if !hasCode(bag, diag.LexUnterminatedString) {
		t.Fatalf("expected unterminated string, got %v", codes(bag))
	}
}

func TestNumbers(t *testing.T) {
	toks, bag := scan(t, "12 3.5 .5 1e10 2.5e-3 1\\5 16rff 2r101", nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.IntDenotation, token.RealDenotation, token.RealDenotation,
		token.RealDenotation, token.RealDenotation, token.RealDenotation,
		token.BitsDenotation, token.BitsDenotation)
	if toks[5].Text != "1e5" {
		t.Fatalf("backslash exponent not normalised: %q", toks[5].Text)
	}

	_, bag = scan(t, "2r102", nil)
	if !hasCode(bag, diag.LexBadDenotation) {
		t.Fatalf("expected bad bits denotation, got %v", codes(bag))
	}
}

func TestOperators(t *testing.T) {
	toks, bag := scan(t, "a +:= 1; s +=: t; b := c; x :=: y; p :/=: q; r <= s; t /= u; v ** 2; a = b", nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	var texts []string
	for _, tok := range toks {
		switch tok.Kind {
		case token.Operator, token.Assign, token.Is, token.Isnt, token.Equals:
			texts = append(texts, tok.Kind.String()+":"+tok.Text)
		}
	}
	got := strings.Join(texts, " ")
	want := strings.Join([]string{
		token.Operator.String() + ":+:=",
		token.Operator.String() + ":+=:",
		token.Assign.String() + "::=",
		token.Is.String() + "::=:",
		token.Isnt.String() + "::/=:",
		token.Operator.String() + ":<=",
		token.Operator.String() + ":/=",
		token.Operator.String() + ":**",
		token.Equals.String() + ":=",
	}, " ")
	if got != want {
		t.Fatalf("operators:\n got %s\nwant %s", got, want)
	}
}

func TestGoTo(t *testing.T) {
	toks, _ := scan(t, "GO TO done; GOTO done", nil)
	expectKinds(t, toks, token.Goto, token.Identifier, token.Semicolon, token.Goto, token.Identifier)
}

func TestFormatText(t *testing.T) {
	toks, bag := scan(t, "f := $ 3d, x, \"ok\" 2(a) $;", nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Identifier, token.Assign,
		token.FormatDelimiter, token.FormatItem, token.Comma, token.FormatItem, token.Comma,
		token.FormatItem, token.FormatItem, token.FormatOpen, token.FormatItem, token.FormatClose,
		token.FormatDelimiter, token.Semicolon)
	if toks[3].Text != "3d" || toks[7].Text != "ok" {
		t.Fatalf("bad format items: %v", toks)
	}

	_, bag = scan(t, "$ 3d", nil)
	if !hasCode(bag, diag.LexUnterminatedFormat) {
		t.Fatalf("expected unterminated format, got %v", codes(bag))
	}
}

func TestBraces(t *testing.T) {
	toks, bag := scan(t, "{ SKIP }", nil)
	expectKinds(t, toks, token.Acco, token.Skip, token.Occa)
	if !hasCode(bag, diag.LexPortability) {
		t.Fatalf("expected portability warning, got %v", codes(bag))
	}

	conf := config.Default()
	conf.Brackets = true
	toks, bag = scan(t, "{ SKIP }", &conf)
	expectKinds(t, toks, token.Open, token.Skip, token.Close)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
}

func TestUnworthyCharacter(t *testing.T) {
	toks, bag := scan(t, "SKIP ` SKIP", nil)
	expectKinds(t, toks, token.Skip, token.Skip)
	if got := codes(bag); len(got) != 1 || got[0] != diag.LexUnworthyChar {
		t.Fatalf("got %v", got)
	}
}

func TestSpansPointIntoSource(t *testing.T) {
	src := "BEGIN\n  INT count = 1\nEND"
	toks, _ := scan(t, src, nil)
	id := toks[2]
	if id.Line != 2 {
		t.Fatalf("identifier on line %d", id.Line)
	}
	if got := src[id.Span.Start:id.Span.End]; got != "count" {
		t.Fatalf("span covers %q", got)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("peek.a68", []byte("SKIP END"))
	lx := lexer.New(source.Lines(fs.Get(id)), lexer.Options{})
	p, ok := lx.Peek()
	if !ok || p.Kind != token.Skip {
		t.Fatalf("peek: %v", p)
	}
	n, _ := lx.Next()
	if n.Kind != token.Skip {
		t.Fatalf("next after peek: %v", n)
	}
	n, _ = lx.Next()
	if n.Kind != token.End {
		t.Fatalf("second token: %v", n)
	}
	if _, ok := lx.Next(); ok {
		t.Fatalf("expected end of input")
	}
}
