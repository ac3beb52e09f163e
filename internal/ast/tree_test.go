package ast

import (
	"testing"

	"a68/internal/source"
	"a68/internal/token"
)

func toks(kinds ...token.Kind) []token.Token {
	out := make([]token.Token, len(kinds))
	for i, k := range kinds {
		off := uint32(i * 2)
		out[i] = token.Token{Kind: k, Span: source.Span{Start: off, End: off + 1}, Line: 1}
	}
	return out
}

func TestFromTokensLinksSiblings(t *testing.T) {
	tr := FromTokens(toks(token.Begin, token.Identifier, token.End))
	kids := tr.Children(tr.Root)
	if len(kids) != 3 {
		t.Fatalf("expected 3 children, got %d", len(kids))
	}
	if tr.Prev(kids[0]).IsValid() || tr.Next(kids[2]).IsValid() {
		t.Fatal("list ends must be open")
	}
	for _, k := range kids {
		if tr.Parent(k) != tr.Root {
			t.Fatalf("child %d has wrong parent", k)
		}
	}
}

func TestMakeSubFoldsRun(t *testing.T) {
	tr := FromTokens(toks(token.Identifier, token.Open, token.Identifier, token.Close, token.Semicolon))
	kids := tr.Children(tr.Root)
	group := tr.MakeSub(kids[1], kids[3], token.OpenGroup)

	top := tr.Children(tr.Root)
	if len(top) != 3 || top[1] != group {
		t.Fatalf("unexpected top level after fold: %v", top)
	}
	inner := tr.Children(group)
	if len(inner) != 3 || inner[0] != kids[1] || inner[2] != kids[3] {
		t.Fatalf("unexpected group contents: %v", inner)
	}
	if sp := tr.Span(group); sp.Start != 2 || sp.End != 7 {
		t.Fatalf("group span = %v", sp)
	}
	if tr.Parent(kids[2]) != group {
		t.Fatal("folded children must be re-parented")
	}
}

func TestMakeSubAtListHead(t *testing.T) {
	tr := FromTokens(toks(token.Identifier, token.Semicolon))
	first := tr.Sub(tr.Root)
	w := tr.Wrap(first, token.Primary)
	if tr.Sub(tr.Root) != w {
		t.Fatal("wrapping the first child must update the parent's Sub")
	}
	if tr.Strip(w) != first {
		t.Fatal("Strip must descend through single-child wrappers")
	}
}

func TestRetagRejectsIllegalTransition(t *testing.T) {
	tr := FromTokens(toks(token.Identifier))
	id := tr.Sub(tr.Root)
	tr.Retag(id, token.DefiningIdentifier)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for illegal retag")
		}
	}()
	tr.Retag(id, token.Formula)
}

func TestWalkSkipsChildren(t *testing.T) {
	tr := FromTokens(toks(token.Open, token.Identifier, token.Close))
	kids := tr.Children(tr.Root)
	tr.MakeSub(kids[0], kids[2], token.OpenGroup)
	seen := 0
	tr.Walk(tr.Root, func(id NodeID, depth int) bool {
		seen++
		return tr.Attr(id) != token.OpenGroup
	})
	if seen != 2 {
		t.Fatalf("expected root and group only, saw %d", seen)
	}
}

func TestArenaPointersSurviveGrowth(t *testing.T) {
	a := NewArena[int](0)
	first := a.Get(a.Allocate(7))
	for i := range 3000 {
		a.Allocate(i)
	}
	if *first != 7 || a.Get(1) != first {
		t.Fatal("pointer moved after growth")
	}
	if a.Len() != 3001 || *a.Get(3001) != 2999 || *a.Get(1025) != 1023 {
		t.Fatalf("len %d", a.Len())
	}
	if a.Get(0) != nil || a.Get(3002) != nil {
		t.Fatal("out of range handle resolved")
	}
}
