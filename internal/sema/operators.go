package sema

import (
	"strings"

	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
)

// candidate is one operator declaration that accepts the operands.
type candidate struct {
	tag  ast.TagID
	cost int
}

func (c *checker) monadic(id ast.NodeID) modes.ModeID {
	op := c.t.Sub(id)
	x := c.t.Next(op)
	return c.operate(id, op, []ast.NodeID{x})
}

func (c *checker) formula(id ast.NodeID) modes.ModeID {
	l := c.t.Sub(id)
	op := c.t.Next(l)
	return c.operate(id, op, []ast.NodeID{l, c.t.Next(op)})
}

// operate identifies the operator applied to operands. Operands stand in
// firm positions; when no declaration accepts them firmly, one accepting
// them after widening is taken.
func (c *checker) operate(id, op ast.NodeID, operands []ast.NodeID) modes.ModeID {
	have := make([]modes.ModeID, len(operands))
	broken := false
	for i, x := range operands {
		have[i] = c.unit(x, anyIn(ast.Firm))
		broken = broken || c.isError(have[i])
	}
	on := c.node(op)
	if broken {
		on.Mode = c.std.Error
		return c.std.Error
	}
	sort := ast.Firm
	best, tied := c.identify(on.Scope, on.Text, have, sort)
	if !best.tag.IsValid() {
		sort = ast.Strong
		best, tied = c.identify(on.Scope, on.Text, have, sort)
	}
	if !best.tag.IsValid() {
		c.errorAt(diag.ModNoOperator, op, "no operator %s for %s", on.Text, c.operandList(have))
		on.Mode = c.std.Error
		return c.std.Error
	}
	if tied {
		c.errorAt(diag.ModAmbiguousOperator, op, "operator %s is ambiguous for %s", on.Text, c.operandList(have))
	}
	tg := c.syms.Tag(best.tag)
	on = c.node(op)
	on.Tag = best.tag
	on.Mode = tg.Mode
	params := c.m.Pack(tg.Mode)
	for i, x := range operands {
		c.coerce(x, have[i], Soid{Sort: sort, Mode: params[i].Mode})
	}
	c.s.Trace("operator", on.Text+" "+c.str(tg.Mode))
	return c.m.SubOf(tg.Mode)
}

// identify searches the ranges from the innermost outward and stops at the
// first range declaring a fitting operator. The cheapest fit wins.
func (c *checker) identify(scope ast.ScopeID, name string, have []modes.ModeID, sort ast.Sort) (best candidate, tied bool) {
	c.syms.Operators(scope, name, func(_ ast.ScopeID, ops []ast.TagID) bool {
		for _, t := range ops {
			cost, ok := c.fits(c.syms.Tag(t).Mode, have, sort)
			switch {
			case !ok:
			case !best.tag.IsValid() || cost < best.cost:
				best, tied = candidate{tag: t, cost: cost}, false
			case cost == best.cost && !c.m.Equal(c.syms.Tag(t).Mode, c.syms.Tag(best.tag).Mode):
				tied = true
			}
		}
		return !best.tag.IsValid()
	})
	return best, tied
}

func (c *checker) fits(opMode modes.ModeID, have []modes.ModeID, sort ast.Sort) (int, bool) {
	if c.m.KindOf(opMode) != modes.Proc {
		return 0, false
	}
	params := c.m.Pack(opMode)
	if len(params) != len(have) {
		return 0, false
	}
	cost := 0
	for i, p := range params {
		steps, ok := c.plan(have[i], p.Mode, sort)
		if !ok {
			return 0, false
		}
		cost += len(steps)
	}
	return cost, true
}

func (c *checker) operandList(have []modes.ModeID) string {
	parts := make([]string, len(have))
	for i, m := range have {
		parts[i] = c.str(m)
	}
	return strings.Join(parts, " and ")
}
