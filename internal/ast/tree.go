package ast

import (
	"a68/internal/source"
	"a68/internal/token"
)

// Tree owns every node of one compilation.
type Tree struct {
	Nodes *Arena[Node]
	Root  NodeID
}

// NewTree creates a tree with an empty PARTICULAR_PROGRAM root.
func NewTree(capHint uint) *Tree {
	t := &Tree{Nodes: NewArena[Node](capHint + 1)}
	t.Root = t.New(token.Program, "", source.Span{})
	return t
}

// FromTokens builds the flat sibling list the top-down parser starts from.
func FromTokens(toks []token.Token) *Tree {
	t := NewTree(uint(len(toks)) * 2)
	var prev NodeID
	for _, tok := range toks {
		id := t.New(tok.Kind, tok.Text, tok.Span)
		n := t.Get(id)
		n.Line = tok.Line
		n.Parent = t.Root
		n.Prev = prev
		if prev.IsValid() {
			t.Get(prev).Next = id
		} else {
			t.Get(t.Root).Sub = id
		}
		prev = id
	}
	if len(toks) > 0 {
		root := t.Get(t.Root)
		root.Span = toks[0].Span.Cover(toks[len(toks)-1].Span)
		root.Line = toks[0].Line
	}
	return t
}

// New allocates a detached node.
func (t *Tree) New(attr token.Kind, text string, sp source.Span) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Attr: attr, Text: text, Span: sp}))
}

// Get returns the node or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

func (t *Tree) Attr(id NodeID) token.Kind {
	if n := t.Get(id); n != nil {
		return n.Attr
	}
	return token.Invalid
}

func (t *Tree) Sub(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Sub
	}
	return NoNodeID
}

func (t *Tree) Next(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Next
	}
	return NoNodeID
}

func (t *Tree) Prev(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Prev
	}
	return NoNodeID
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

func (t *Tree) Text(id NodeID) string {
	if n := t.Get(id); n != nil {
		return n.Text
	}
	return ""
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Get(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

// Is reports whether id has one of the given categories.
func (t *Tree) Is(id NodeID, kinds ...token.Kind) bool {
	a := t.Attr(id)
	for _, k := range kinds {
		if a == k {
			return true
		}
	}
	return false
}

// Children returns the direct children of id in order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.Sub(id); c.IsValid(); c = t.Next(c) {
		out = append(out, c)
	}
	return out
}

// Count returns the number of direct children.
func (t *Tree) Count(id NodeID) int {
	n := 0
	for c := t.Sub(id); c.IsValid(); c = t.Next(c) {
		n++
	}
	return n
}

// Last returns the last child of id.
func (t *Tree) Last(id NodeID) NodeID {
	c := t.Sub(id)
	if !c.IsValid() {
		return NoNodeID
	}
	for t.Next(c).IsValid() {
		c = t.Next(c)
	}
	return c
}

// Find returns the first direct child with category k.
func (t *Tree) Find(id NodeID, k token.Kind) NodeID {
	for c := t.Sub(id); c.IsValid(); c = t.Next(c) {
		if t.Attr(c) == k {
			return c
		}
	}
	return NoNodeID
}

// Strip descends through single-child grammar levels (UNIT, TERTIARY, ...).
func (t *Tree) Strip(id NodeID) NodeID {
	for {
		n := t.Get(id)
		if n == nil || !n.Attr.IsWrapper() || !n.Sub.IsValid() || t.Next(n.Sub).IsValid() {
			return id
		}
		id = n.Sub
	}
}

// Describe renders a node for diagnostics: its text when it has one,
// otherwise its category.
func (t *Tree) Describe(id NodeID) string {
	n := t.Get(id)
	if n == nil {
		return "<nil>"
	}
	if n.Text != "" {
		return n.Text
	}
	if n.Attr.IsTerminal() {
		return token.Spelling(n.Attr)
	}
	return n.Attr.String()
}
