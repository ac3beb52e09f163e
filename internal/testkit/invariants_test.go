package testkit

import (
	"strings"
	"testing"

	"a68/internal/ast"
	"a68/internal/source"
	"a68/internal/token"
)

func sample(t *testing.T) (*ast.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("x.a68", []byte("x ; SKIP")))
	toks := []token.Token{
		{Kind: token.Identifier, Text: "x", Span: source.Span{File: f.ID, Start: 0, End: 1}, Line: 1},
		{Kind: token.Semicolon, Span: source.Span{File: f.ID, Start: 2, End: 3}, Line: 1},
		{Kind: token.Skip, Span: source.Span{File: f.ID, Start: 4, End: 8}, Line: 1},
	}
	return ast.FromTokens(toks), f
}

func TestCheckTreeAcceptsWellFormedTree(t *testing.T) {
	tr, f := sample(t)
	first := tr.Sub(tr.Root)
	tr.MakeSub(first, tr.Next(first), token.Invalid)
	if err := CheckTree(tr, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckTreeReportsBrokenLinks(t *testing.T) {
	tr, f := sample(t)
	second := tr.Next(tr.Sub(tr.Root))
	tr.Get(second).Prev = ast.NoNodeID
	err := CheckTree(tr, f)
	if err == nil || !strings.Contains(err.Error(), "prev") {
		t.Fatalf("want prev error, got %v", err)
	}

	tr, f = sample(t)
	tr.Get(second).Parent = second
	if err := CheckTree(tr, f); err == nil || !strings.Contains(err.Error(), "parent") {
		t.Fatalf("want parent error, got %v", err)
	}
}

func TestCheckTreeReportsBadSpans(t *testing.T) {
	tr, f := sample(t)
	last := tr.Last(tr.Root)
	tr.Get(last).Span.End = 100
	if err := CheckTree(tr, f); err == nil || !strings.Contains(err.Error(), "beyond content") {
		t.Fatalf("want span error, got %v", err)
	}
}

func TestCheckTreeNil(t *testing.T) {
	if err := CheckTree(nil, nil); err == nil {
		t.Fatal("nil tree accepted")
	}
}
