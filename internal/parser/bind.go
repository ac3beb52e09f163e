package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/symbols"
	"a68/internal/token"
)

// Bind resolves every applied identifier to its tag. An identifier that
// names a label instead becomes a jump.
func Bind(s *session.Session) session.Status {
	c := newCore(s)
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		n := c.node(id)
		if n.Has(ast.FlagRecovered) {
			return false
		}
		switch n.Attr {
		case token.Identifier:
			c.bindIdentifier(id)
		case token.Jump:
			c.bindLabel(id)
		}
		return !s.Halted()
	})
	if s.Halted() {
		return session.StatusFatal
	}
	return session.StatusOK
}

func (c *core) use(tag ast.TagID) {
	c.syms.Tag(tag).Flags |= symbols.TagFlagUsed
}

func (c *core) bindIdentifier(id ast.NodeID) {
	n := c.node(id)
	if tag := c.syms.Lookup(n.Scope, symbols.TagIdentifier, n.Text); tag.IsValid() {
		n.Tag = tag
		c.use(tag)
		return
	}
	if tag := c.syms.Lookup(n.Scope, symbols.TagLabel, n.Text); tag.IsValid() {
		c.t.Retag(id, token.Jump)
		c.node(id).Tag = tag
		c.use(tag)
		return
	}
	c.errorAt(diag.DclUndeclared, id, "identifier %s has not been declared", n.Text)
}

func (c *core) bindLabel(id ast.NodeID) {
	n := c.node(id)
	if tag := c.syms.Lookup(n.Scope, symbols.TagLabel, n.Text); tag.IsValid() {
		n.Tag = tag
		c.use(tag)
		return
	}
	if c.syms.Lookup(n.Scope, symbols.TagIdentifier, n.Text).IsValid() {
		c.errorAt(diag.DclLabelMisuse, id, "%s is an identifier, not a label", n.Text)
		return
	}
	c.errorAt(diag.DclUndeclared, id, "label %s has not been declared", n.Text)
}
