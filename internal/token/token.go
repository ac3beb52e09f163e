package token

import (
	"a68/internal/source"
)

// Token is one scanner result. Text is the normalised spelling: identifiers
// have their blanks removed, bold words are upper case in both regimes,
// string denotations carry their contents without quotes.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Line is the 1-based source line the token starts on.
	Line uint32
}

// IsLiteral reports whether the token is a denotation.
func (t Token) IsLiteral() bool { return t.Kind.IsDenotationToken() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + " " + t.Text
}
