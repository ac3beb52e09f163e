package parser

import (
	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/token"
)

type opener struct {
	fam token.Family
	tok token.Token
}

// CheckBrackets verifies that every bracket family nests properly before
// any structural parsing happens. Each unmatched opener or closer is
// reported once; any report makes the phase fatal.
func CheckBrackets(s *session.Session) session.Status {
	if checkBrackets(s.Tokens, s) > 0 {
		return session.StatusFatal
	}
	return session.StatusOK
}

// checkBrackets returns the number of problems found.
func checkBrackets(toks []token.Token, r diag.Reporter) int {
	var stack []opener
	bad := 0
	for _, tok := range toks {
		// $ both opens and closes a format text
		if tok.Kind == token.FormatDelimiter {
			if n := len(stack); n > 0 && stack[n-1].fam == token.FamilyFormat {
				stack = stack[:n-1]
			} else {
				stack = append(stack, opener{fam: token.FamilyFormat, tok: tok})
			}
			continue
		}
		if f := token.OpensFamily(tok.Kind); f != token.NoFamily {
			stack = append(stack, opener{fam: f, tok: tok})
			continue
		}
		f := token.ClosesFamily(tok.Kind)
		if f == token.NoFamily {
			continue
		}
		i := len(stack) - 1
		for i >= 0 && stack[i].fam != f {
			i--
		}
		if i < 0 {
			bad++
			diag.ReportSyntax(r, diag.SynUnexpectedCloser, tok.Span,
				"%s has no matching %s", token.Spelling(tok.Kind), f.OpenerText()).Emit()
			continue
		}
		// everything opened after the matching opener lacks its closer
		for j := len(stack) - 1; j > i; j-- {
			bad++
			missingCloser(r, stack[j], tok)
		}
		stack = stack[:i]
	}
	var end token.Token
	if len(toks) > 0 {
		end = toks[len(toks)-1]
	}
	for j := len(stack) - 1; j >= 0; j-- {
		bad++
		missingCloser(r, stack[j], end)
	}
	return bad
}

func missingCloser(r diag.Reporter, o opener, near token.Token) {
	b := diag.ReportSyntax(r, diag.SynMissingCloser, o.tok.Span,
		"%s is not closed: missing %s", o.fam.OpenerText(), o.fam.CloserText())
	if near.Kind != token.Invalid {
		b.WithNote(near.Span, "expected "+o.fam.CloserText()+" before here")
	}
	b.Emit()
}
