// Package sema gives every unit of the reduced tree a mode.
//
// Three phases run after binding:
//
//   - CollectModes turns declarers into modes, binds indicants, gives every
//     declared tag its mode and runs the equivalencer;
//   - CheckModes descends the tree with a required sort and mode (a Soid),
//     records the a-priori mode of every unit and the mode its context wants,
//     balances multi-branch clauses and resolves operators;
//   - InsertCoercions makes the coercions proved legal explicit nodes.
package sema

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/session"
	"a68/internal/source"
	"a68/internal/symbols"
	"a68/internal/token"
)

// checker is shared by the three phases.
type checker struct {
	s    *session.Session
	t    *ast.Tree
	m    *modes.Table
	syms *symbols.Table
	std  *modes.Std
	pool soidPool
}

func newChecker(s *session.Session) *checker {
	return &checker{s: s, t: s.Tree, m: s.Modes, syms: s.Scopes, std: &s.Modes.Std}
}

func (c *checker) attr(id ast.NodeID) token.Kind { return c.t.Attr(id) }
func (c *checker) node(id ast.NodeID) *ast.Node  { return c.t.Get(id) }

func (c *checker) is(id ast.NodeID, kinds ...token.Kind) bool {
	return id.IsValid() && c.t.Is(id, kinds...)
}

func (c *checker) spanOf(id ast.NodeID) source.Span {
	if n := c.t.Get(id); n != nil {
		return n.Span
	}
	return c.t.Span(c.t.Root)
}

func (c *checker) errorAt(code diag.Code, at ast.NodeID, template string, args ...string) {
	diag.ReportError(c.s, code, c.spanOf(at), template, args...).Emit()
}

func (c *checker) warnAt(code diag.Code, at ast.NodeID, template string, args ...string) {
	diag.ReportWarning(c.s, code, c.spanOf(at), template, args...).Emit()
}

// str renders a mode for a message.
func (c *checker) str(m modes.ModeID) string {
	if !m.IsValid() {
		return "no mode"
	}
	return c.m.String(m)
}

// isError reports modes that every coercion accepts.
func (c *checker) isError(m modes.ModeID) bool {
	if !m.IsValid() {
		return false
	}
	k := c.m.KindOf(m)
	return k == modes.Error
}

func (c *checker) isHip(m modes.ModeID) bool { return m.IsValid() && c.m.KindOf(m) == modes.Hip }

func (c *checker) isVoid(m modes.ModeID) bool {
	return m.IsValid() && c.m.Resolve(m) == c.m.Canon(c.std.Void)
}

// finish converts the outcome of a phase into its status.
func (c *checker) finish() session.Status {
	if c.s.Halted() || c.s.TooDeep() {
		return session.StatusFatal
	}
	return session.StatusOK
}
