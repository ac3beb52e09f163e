package lexer

import (
	"a68/internal/diag"
	"a68/internal/token"
)

type refinement struct {
	name    string
	body    []token.Token
	at      token.Token
	applied int
}

// Refine runs the refinement preprocessor. A program may be followed by a
// point and definitions of the form "name : tokens ." ; each definition must
// be applied exactly once, and its application is replaced by its tokens.
// Definitions are removed from the stream.
func Refine(toks []token.Token, r diag.Reporter) []token.Token {
	end := programEnd(toks)
	if end < 0 {
		return toks
	}
	defs, order := collectRefinements(toks[end+1:], r)
	if len(defs) == 0 {
		return toks[:end]
	}
	out := make([]token.Token, 0, len(toks))
	out = expandRefinements(out, toks[:end], defs, r, 0)
	for _, name := range order {
		d := defs[name]
		if d.applied == 0 {
			rep(r, diag.SevWarning, diag.LexRefinementUnused, d.at, "refinement %s is not applied", name)
		}
	}
	return out
}

// programEnd finds the point that closes the particular program, or -1.
func programEnd(toks []token.Token) int {
	depth := 0
	for i, t := range toks {
		if token.OpensFamily(t.Kind) != token.NoFamily && t.Kind != token.FormatDelimiter {
			depth++
			continue
		}
		if token.ClosesFamily(t.Kind) != token.NoFamily && t.Kind != token.FormatDelimiter {
			depth--
			continue
		}
		if t.Kind == token.Point && depth <= 0 && i > 0 {
			return i
		}
	}
	return -1
}

func collectRefinements(toks []token.Token, r diag.Reporter) (map[string]*refinement, []string) {
	defs := make(map[string]*refinement)
	var order []string
	i := 0
	for i < len(toks) {
		end := programEnd(toks[i:])
		if end < 0 {
			end = len(toks) - i
		}
		part := toks[i : i+end]
		i += end + 1
		if len(part) == 0 {
			continue
		}
		if len(part) < 2 || part[0].Kind != token.Identifier || part[1].Kind != token.Colon {
			rep(r, diag.SevSyntax, diag.LexRefinementSyntax, part[0], "refinement definition expected, found %s", describe(part[0]))
			continue
		}
		name := part[0].Text
		if _, dup := defs[name]; dup {
			rep(r, diag.SevError, diag.LexRefinementTwice, part[0], "refinement %s is defined twice", name)
			continue
		}
		defs[name] = &refinement{name: name, body: part[2:], at: part[0]}
		order = append(order, name)
	}
	return defs, order
}

func expandRefinements(out, toks []token.Token, defs map[string]*refinement, r diag.Reporter, depth int) []token.Token {
	for _, t := range toks {
		d, ok := defs[t.Text]
		if t.Kind != token.Identifier || !ok {
			out = append(out, t)
			continue
		}
		d.applied++
		if d.applied > 1 || depth > len(defs) {
			rep(r, diag.SevError, diag.LexRefinementApplied, t, "refinement %s is applied more than once", d.name)
			// SKIP keeps the unit in place without an undeclared identifier
			out = append(out, token.Token{Kind: token.Skip, Span: t.Span, Text: "SKIP", Line: t.Line})
			continue
		}
		out = expandRefinements(out, d.body, defs, r, depth+1)
	}
	return out
}

func rep(r diag.Reporter, sev diag.Severity, code diag.Code, at token.Token, template string, args ...string) {
	if r == nil {
		return
	}
	diag.NewReportBuilder(r, sev, code, at.Span, template, args...).Emit()
}

func describe(t token.Token) string {
	if t.Text != "" {
		return t.Text
	}
	return token.Spelling(t.Kind)
}
