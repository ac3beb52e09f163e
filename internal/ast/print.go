package ast

import "strings"

// Sexpr renders the subtree of id on one line. Leaves print as their text,
// other nodes as (KIND child ...).
func (t *Tree) Sexpr(id NodeID) string {
	var b strings.Builder
	t.sexpr(&b, id)
	return b.String()
}

func (t *Tree) sexpr(b *strings.Builder, id NodeID) {
	n := t.Get(id)
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	if !n.Sub.IsValid() && (n.Text != "" || n.Attr.IsTerminal()) {
		b.WriteString(t.Describe(id))
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Attr.String())
	for c := n.Sub; c.IsValid(); c = t.Next(c) {
		b.WriteByte(' ')
		t.sexpr(b, c)
	}
	b.WriteByte(')')
}
