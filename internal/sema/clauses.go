package sema

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/token"
)

// collateral checks a row or structure display. Without a required mode
// the display has a stowed mode that is resolved once a context asks.
func (c *checker) collateral(id ast.NodeID, w Soid) modes.ModeID {
	units := c.t.Children(id)
	if !w.specific() {
		if len(units) == 0 {
			return c.std.Vacuum
		}
		ms := make([]modes.ModeID, len(units))
		for i, u := range units {
			ms[i] = c.unit(u, anyIn(ast.Strong))
		}
		return c.m.Stowed(ms)
	}
	switch {
	case c.isError(w.Mode):
		for _, u := range units {
			c.unit(u, anyIn(ast.Strong))
		}
		return w.Mode
	case len(units) == 0 && !c.m.IsRowLike(c.m.Deflex(w.Mode)):
		c.errorAt(diag.ModIncoercible, id, "an empty display cannot have mode %s", c.str(w.Mode))
		return c.std.Error
	case c.isVoid(w.Mode):
		for _, u := range units {
			c.unit(u, strong(c.std.Void))
		}
		return w.Mode
	case len(units) == 0:
		return c.std.Vacuum
	}
	target := c.m.Deflex(w.Mode)
	if c.m.IsRowLike(target) {
		elem := c.rowElement(target)
		for _, u := range units {
			c.unit(u, strong(elem))
		}
		return w.Mode
	}
	if c.m.KindOf(target) == modes.Struct {
		fields := c.m.Pack(w.Mode)
		if len(fields) != len(units) {
			c.errorAt(diag.ModArgumentCount, id, "%s has %s fields but the display has %s", c.str(w.Mode), itoa(len(fields)), itoa(len(units)))
		}
		for i, u := range units {
			if i < len(fields) {
				c.unit(u, strong(fields[i].Mode))
			} else {
				c.unit(u, anyIn(ast.Strong))
			}
		}
		return w.Mode
	}
	for _, u := range units {
		c.unit(u, anyIn(ast.Strong))
	}
	c.errorAt(diag.ModIncoercible, id, "a display cannot have mode %s", c.str(w.Mode))
	return c.std.Error
}

// stow distributes a mode required of a display checked without one over
// its members.
func (c *checker) stow(id ast.NodeID, want modes.ModeID) {
	d := c.t.Strip(id)
	if !c.is(d, token.CollateralClause) || c.isVoid(want) {
		return
	}
	target := c.m.Deflex(want)
	var elem modes.ModeID
	var fields []modes.Field
	switch {
	case c.m.IsRowLike(target):
		elem = c.rowElement(target)
	case c.m.KindOf(target) == modes.Struct:
		fields = c.m.Pack(want)
	default:
		return
	}
	i := 0
	for u := c.t.Sub(d); u.IsValid(); u = c.t.Next(u) {
		m := elem
		if !m.IsValid() {
			if i >= len(fields) {
				return
			}
			m = fields[i].Mode
		}
		if um := c.node(u).Mode; um.IsValid() && !c.isError(um) {
			c.coerce(u, um, strong(m))
		}
		i++
	}
}

func (c *checker) parallel(id ast.NodeID) modes.ModeID {
	if coll := c.t.Sub(id); coll.IsValid() {
		for u := c.t.Sub(coll); u.IsValid(); u = c.t.Next(u) {
			c.unit(u, strong(c.std.Void))
		}
		c.node(coll).Mode = c.std.Void
	}
	return c.std.Void
}

// branches collects what the alternatives of a choice clause yield.
type branches struct {
	c     *checker
	w     Soid
	ys    []yield
	parts []ast.NodeID
}

func (c *checker) newBranches(w Soid) *branches {
	b := &branches{c: c, w: w}
	if !w.specific() {
		b.ys = c.pool.get()
	}
	return b
}

// serial adds a part holding a serial clause.
func (b *branches) serial(sc ast.NodeID) {
	c := b.c
	if b.w.specific() {
		c.serial(sc, b.w)
		return
	}
	if !c.is(sc, token.SerialClause) {
		b.unit(sc)
		return
	}
	c.phrases(sc, b.w, &b.ys)
	b.parts = append(b.parts, sc)
}

// unit adds a single unit alternative.
func (b *branches) unit(u ast.NodeID) {
	c := b.c
	if b.w.specific() {
		c.unit(u, b.w)
		return
	}
	b.ys = append(b.ys, yield{node: u, mode: c.unit(u, anyIn(b.w.Sort))})
}

// done balances the alternatives. A clause without ELSE or OUT also yields
// SKIP, which adapts to anything.
func (b *branches) done(at ast.NodeID) modes.ModeID {
	c := b.c
	if b.w.specific() {
		return b.w.Mode
	}
	m := c.balance(b.ys, at)
	for _, sc := range b.parts {
		c.node(sc).Mode = m
	}
	c.pool.put(b.ys)
	return m
}

// conditional checks IF enquiries as meek BOOL and balances the branches.
func (c *checker) conditional(id ast.NodeID, w Soid) modes.ModeID {
	b := c.newBranches(w)
	for p := c.t.Sub(id); p.IsValid(); p = c.t.Next(p) {
		switch c.attr(p) {
		case token.IfPart, token.ElifPart:
			c.serial(c.t.Sub(p), meek(c.std.Bool))
		case token.ThenPart, token.ElsePart:
			b.serial(c.t.Sub(p))
		}
	}
	return b.done(id)
}

// caseClause checks CASE enquiries as meek INT.
func (c *checker) caseClause(id ast.NodeID, w Soid) modes.ModeID {
	b := c.newBranches(w)
	for p := c.t.Sub(id); p.IsValid(); p = c.t.Next(p) {
		switch c.attr(p) {
		case token.CasePart, token.OusePart:
			c.serial(c.t.Sub(p), meek(c.std.Int))
		case token.CaseInPart:
			for u := c.t.Sub(p); u.IsValid(); u = c.t.Next(u) {
				b.unit(u)
			}
		case token.OutPart:
			b.serial(c.t.Sub(p))
		}
	}
	return b.done(id)
}

// conformity checks that the enquiry is united and every specifier names
// one of its modes.
func (c *checker) conformity(id ast.NodeID, w Soid) modes.ModeID {
	b := c.newBranches(w)
	union := modes.NoModeID
	for p := c.t.Sub(id); p.IsValid(); p = c.t.Next(p) {
		switch c.attr(p) {
		case token.CasePart, token.OusePart:
			union = c.unitedEnquiry(c.t.Sub(p))
		case token.ConformityInPart:
			for su := c.t.Sub(p); su.IsValid(); su = c.t.Next(su) {
				if c.node(su).Has(ast.FlagRecovered) {
					continue
				}
				c.specifier(c.t.Sub(su), union)
				b.unit(c.t.Last(su))
			}
		case token.OutPart:
			b.serial(c.t.Sub(p))
		}
	}
	return b.done(id)
}

func (c *checker) unitedEnquiry(sc ast.NodeID) modes.ModeID {
	m := c.serial(sc, anyIn(ast.Meek))
	if c.isError(m) {
		return c.std.Error
	}
	u, ok := c.unwrap(m, true, func(x modes.ModeID) bool { return c.m.KindOf(x) == modes.Union })
	if !ok {
		c.errorAt(diag.ModIncoercible, sc, "the enquiry of a conformity clause must be united, not %s", c.str(m))
		return c.std.Error
	}
	c.coerce(sc, m, meek(u))
	return u
}

func (c *checker) specifier(spec ast.NodeID, union modes.ModeID) {
	decl := c.t.Sub(spec)
	if !c.is(decl, token.Declarer) {
		return
	}
	m := c.declarer(decl)
	if !union.IsValid() || c.isError(union) || c.isError(m) {
		return
	}
	if !c.m.InUnion(m, union) && !c.m.UnionContains(union, m) {
		c.errorAt(diag.ModSpecifierNotInUnion, decl, "%s is not a mode of %s", c.str(m), c.str(union))
	}
}

// loop checks FROM, BY and TO as meek INT and WHILE as meek BOOL; the DO
// part is voided.
func (c *checker) loop(id ast.NodeID) modes.ModeID {
	for p := c.t.Sub(id); p.IsValid(); p = c.t.Next(p) {
		switch c.attr(p) {
		case token.FromPart, token.ByPart, token.ToPart:
			c.unit(c.t.Sub(p), meek(c.std.Int))
		case token.WhilePart:
			c.serial(c.t.Sub(p), meek(c.std.Bool))
		case token.DoPart:
			c.serial(c.t.Sub(p), strong(c.std.Void))
		}
	}
	return c.std.Void
}
