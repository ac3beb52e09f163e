package ast

import (
	"fmt"

	"a68/internal/token"
)

// MakeSub folds the sibling run first..last into a new node of category
// attr, which takes first's place in the sibling list. The new node lives in
// first's scope and spans the whole run.
func (t *Tree) MakeSub(first, last NodeID, attr token.Kind) NodeID {
	f, l := t.Get(first), t.Get(last)
	if f == nil || l == nil {
		panic(fmt.Errorf("MakeSub: invalid run %d..%d", first, last))
	}
	parent, before, after := f.Parent, f.Prev, l.Next
	id := t.New(attr, "", f.Span.Cover(l.Span))
	// после New указатели f/l могли устареть
	f, l = t.Get(first), t.Get(last)
	n := t.Get(id)
	n.Line = f.Line
	n.Scope = f.Scope
	n.Parent = parent
	n.Prev = before
	n.Next = after
	n.Sub = first
	if before.IsValid() {
		t.Get(before).Next = id
	} else if p := t.Get(parent); p != nil && p.Sub == first {
		p.Sub = id
	}
	if after.IsValid() {
		t.Get(after).Prev = id
	}
	f.Prev = NoNodeID
	l.Next = NoNodeID
	for c := first; c.IsValid(); c = t.Next(c) {
		t.Get(c).Parent = id
		if c == last {
			break
		}
	}
	span := t.Get(first).Span
	for c := first; c.IsValid(); c = t.Next(c) {
		span = span.Cover(t.Get(c).Span)
	}
	t.Get(id).Span = span
	return id
}

// Wrap folds a single node into a new parent of category attr.
func (t *Tree) Wrap(id NodeID, attr token.Kind) NodeID {
	return t.MakeSub(id, id, attr)
}

// Retag changes the category of a node. Only transitions listed in
// token.CanBecome are legal; anything else is a parser bug.
func (t *Tree) Retag(id NodeID, to token.Kind) {
	n := t.Get(id)
	if n == nil {
		panic(fmt.Errorf("Retag: invalid node %d", id))
	}
	if !token.CanBecome(n.Attr, to) {
		panic(fmt.Errorf("Retag: %s cannot become %s", n.Attr, to))
	}
	n.Attr = to
}

// Unlink removes id from its sibling list. The node keeps its subtree.
func (t *Tree) Unlink(id NodeID) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if n.Prev.IsValid() {
		t.Get(n.Prev).Next = n.Next
	} else if p := t.Get(n.Parent); p != nil && p.Sub == id {
		p.Sub = n.Next
	}
	if n.Next.IsValid() {
		t.Get(n.Next).Prev = n.Prev
	}
	n.Prev, n.Next, n.Parent = NoNodeID, NoNodeID, NoNodeID
}

// InsertAfter links the detached node id right after anchor.
func (t *Tree) InsertAfter(anchor, id NodeID) {
	a, n := t.Get(anchor), t.Get(id)
	if a == nil || n == nil {
		return
	}
	n.Parent = a.Parent
	n.Prev = anchor
	n.Next = a.Next
	if a.Next.IsValid() {
		t.Get(a.Next).Prev = id
	}
	a.Next = id
}
