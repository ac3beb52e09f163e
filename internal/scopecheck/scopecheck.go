// Package scopecheck finds names and routines that may outlive the range
// holding what they refer to.
//
// Every unit that can deliver a name, a routine or a format is given a list
// of scope tuples: the level of the youngest range its value depends on and
// whether the value is a transient name (an element of a flexible row).
// Assignations, declarations, routine bodies and arguments then compare the
// tuples of the source against the level of the destination: a source
// younger than its destination escapes.
package scopecheck

import (
	"strconv"

	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/session"
	"a68/internal/symbols"
	"a68/internal/token"
)

// primal is the level of heap storage and of the standard environment.
const primal = 0

// tuple is the scope of one value a unit may deliver.
type tuple struct {
	level     int
	transient bool
	// possible: the value is delivered by only some of the branches of a
	// choice clause.
	possible bool
	at       ast.NodeID
}

// tuplePool recycles tuple lists; nesting depth bounds how many are live.
type tuplePool struct {
	free [][]tuple
}

func (p *tuplePool) get() []tuple {
	if n := len(p.free); n > 0 {
		ts := p.free[n-1]
		p.free = p.free[:n-1]
		return ts[:0]
	}
	return make([]tuple, 0, 4)
}

func (p *tuplePool) put(ts []tuple) {
	if cap(ts) > 0 {
		p.free = append(p.free, ts[:0])
	}
}

type checker struct {
	s    *session.Session
	t    *ast.Tree
	m    *modes.Table
	syms *symbols.Table
	pool tuplePool

	escapes int
}

// Check runs the static scope check over the mode-checked tree. It also
// assigns a scope level to every identity-declared tag and records
// generators and routine texts in the anonymous chain of their range.
func Check(s *session.Session) session.Status {
	c := &checker{s: s, t: s.Tree, m: s.Modes, syms: s.Scopes}
	if !c.t.Root.IsValid() {
		return session.StatusOK
	}
	prog := c.t.Sub(c.t.Root)
	for p := prog; p.IsValid(); p = c.t.Next(p) {
		c.unit(p, nil)
	}
	s.Trace("escapes", strconv.Itoa(c.escapes))
	switch {
	case s.Halted() || s.TooDeep():
		return session.StatusFatal
	case s.Bag.HasErrors():
		return session.StatusRecovered
	}
	return session.StatusOK
}

func (c *checker) attr(id ast.NodeID) token.Kind { return c.t.Attr(id) }
func (c *checker) node(id ast.NodeID) *ast.Node  { return c.t.Get(id) }

func (c *checker) is(id ast.NodeID, kinds ...token.Kind) bool {
	return id.IsValid() && c.t.Is(id, kinds...)
}

// level is the lexical level of the range a node lives in.
func (c *checker) level(id ast.NodeID) int {
	return c.syms.Level(c.node(id).Scope)
}

func (c *checker) refFlex(m modes.ModeID) bool {
	return c.m.IsRef(m) && c.m.KindOf(c.m.SubOf(m)) == modes.Flex
}

// store checks that the values described by src may be kept at level
// dest. Transient names may not be kept at all when noTransient is set.
// Every offending node is reported once.
func (c *checker) store(src []tuple, dest int, noTransient bool, what string) bool {
	ok := true
	for _, tp := range src {
		n := c.node(tp.at)
		if n == nil || n.Has(ast.FlagCheckedScope) {
			continue
		}
		switch {
		case noTransient && tp.transient:
			diag.ReportError(c.s, diag.ScpTransient, n.Span, "a transient name cannot be %s", what).Emit()
		case tp.level > dest && tp.possible:
			diag.ReportWarning(c.s, diag.ScpPossibleEscape, n.Span,
				"%s may outlive its range when %s", c.describe(tp.at), what).Emit()
		case tp.level > dest:
			diag.ReportError(c.s, diag.ScpEscape, n.Span,
				"%s outlives its range when %s", c.describe(tp.at), what).Emit()
		default:
			continue
		}
		n.Flags |= ast.FlagCheckedScope
		c.escapes++
		ok = false
	}
	return ok
}

func (c *checker) describe(id ast.NodeID) string {
	n := c.node(id)
	what := "value"
	switch n.Attr {
	case token.Generator:
		what = "generator"
	case token.Identifier:
		what = n.Text
	case token.RoutineText:
		what = "routine text"
	case token.Jump:
		what = "jump"
	}
	if n.Mode.IsValid() {
		return what + " of mode " + c.m.String(n.Mode)
	}
	return what
}

// youngest returns the highest level among ts, or primal.
func youngest(ts []tuple) (int, bool) {
	lv, possible := primal, false
	for _, tp := range ts {
		if tp.level > lv {
			lv, possible = tp.level, tp.possible
		}
	}
	return lv, possible
}
