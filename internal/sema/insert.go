package sema

import (
	"a68/internal/ast"
	"a68/internal/modes"
	"a68/internal/session"
	"a68/internal/token"
)

// InsertCoercions wraps every unit whose context wants another mode in the
// coercion nodes that produce it, innermost first. A unit already wrapped
// is left alone, so running the phase twice changes nothing.
func InsertCoercions(s *session.Session) session.Status {
	c := newChecker(s)
	var due []ast.NodeID
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		n := c.node(id)
		if n.Has(ast.FlagRecovered) {
			return false
		}
		if n.Want.IsValid() && !c.wrapped(id) {
			due = append(due, id)
		}
		return true
	})
	inserted := 0
	for _, id := range due {
		n := c.node(id)
		for _, st := range c.stepsFor(id, n.Mode, n.Want, n.Sort) {
			w := c.t.Wrap(id, st.kind)
			wn := c.node(w)
			wn.Mode = st.mode
			wn.Flags |= ast.FlagInserted
			id = w
			inserted++
		}
	}
	s.Trace("coercions", itoa(inserted))
	return c.finish()
}

func (c *checker) wrapped(id ast.NodeID) bool {
	p := c.node(c.t.Parent(id))
	return p != nil && p.Attr.IsCoercion() && p.Has(ast.FlagInserted)
}

// stepsFor: a jump where a procedure without parameters is wanted becomes
// that procedure.
func (c *checker) stepsFor(id ast.NodeID, have, want modes.ModeID, sort ast.Sort) []step {
	if c.is(id, token.Jump) {
		m := c.m.Get(c.m.Resolve(want))
		if m != nil && m.Kind == modes.Proc && len(m.Pack) == 0 {
			return []step{{kind: token.Proceduring, mode: want}}
		}
		return nil
	}
	if c.isError(have) || c.isError(want) {
		return nil
	}
	steps, ok := c.plan(have, want, sort)
	if !ok {
		return nil
	}
	return steps
}
