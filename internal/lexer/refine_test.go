package lexer_test

import (
	"strings"
	"testing"

	"a68/internal/diag"
	"a68/internal/lexer"
	"a68/internal/token"
)

func refine(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	toks, bag := scan(t, src, nil)
	if bag.Len() != 0 {
		t.Fatalf("scanner diagnostics: %v", codes(bag))
	}
	return lexer.Refine(toks, diag.BagReporter{Bag: bag}), bag
}

func texts(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		if tok.Text != "" {
			parts[i] = tok.Text
		} else {
			parts[i] = tok.Kind.String()
		}
	}
	return strings.Join(parts, " ")
}

func TestRefinementSplice(t *testing.T) {
	src := `BEGIN read data; process END.
read data: INT n = 1.
process: print (n).`
	toks, bag := refine(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	want := "BEGIN INT n = 1 ; print ( n ) END"
	if got := texts(toks); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestRefinementNested(t *testing.T) {
	src := "outer.\nouter: SKIP; inner.\ninner: SKIP."
	toks, bag := refine(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Skip, token.Semicolon, token.Skip)
}

func TestProgramWithoutRefinements(t *testing.T) {
	toks, bag := refine(t, "BEGIN SKIP END.")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	expectKinds(t, toks, token.Begin, token.Skip, token.End)

	toks, _ = refine(t, "BEGIN SKIP END")
	expectKinds(t, toks, token.Begin, token.Skip, token.End)
}

func TestRefinementPointInsideBrackets(t *testing.T) {
	// the point inside the parentheses is not the end of the program
	toks, bag := refine(t, "( a. b ); go.\ngo: SKIP.")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if got := texts(toks); got != "( a . b ) ; SKIP" {
		t.Fatalf("got %s", got)
	}
}

func TestRefinementErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unused", "SKIP.\nspare: SKIP.", diag.LexRefinementUnused},
		{"twice", "go.\ngo: SKIP.\ngo: SKIP.", diag.LexRefinementTwice},
		{"applied twice", "go; go.\ngo: SKIP.", diag.LexRefinementApplied},
		{"malformed", "go.\ngo SKIP.", diag.LexRefinementSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := refine(t, tc.src)
			if !hasCode(bag, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code.ID(), codes(bag))
			}
		})
	}
}

func TestRepeatedApplicationLeavesNoIdentifier(t *testing.T) {
	for _, src := range []string{"go; go.\ngo: SKIP.", "go.\ngo: go."} {
		toks, bag := refine(t, src)
		if !hasCode(bag, diag.LexRefinementApplied) {
			t.Fatalf("%q: got %v", src, codes(bag))
		}
		for _, tok := range toks {
			if tok.Kind == token.Identifier && tok.Text == "go" {
				t.Fatalf("%q: refinement name left in the stream", src)
			}
		}
	}
}

func TestUnusedRefinementIsWarning(t *testing.T) {
	_, bag := refine(t, "SKIP.\nspare: SKIP.")
	if bag.HasErrors() {
		t.Fatalf("unused refinement must not be an error: %v", codes(bag))
	}
}
