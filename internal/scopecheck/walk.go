package scopecheck

import (
	"math"

	"a68/internal/ast"
	"a68/internal/symbols"
	"a68/internal/token"
)

// unit appends to out the tuples of what id may deliver. With out nil the
// value is of no interest, but stores inside id are still checked.
func (c *checker) unit(id ast.NodeID, out *[]tuple) {
	n := c.node(id)
	if n == nil || n.Has(ast.FlagRecovered) || c.s.Halted() {
		return
	}
	if !c.s.Enter(n.Span) {
		return
	}
	defer c.s.Leave()

	k := n.Attr
	switch {
	case k.IsWrapper():
		for x := c.t.Sub(id); x.IsValid(); x = c.t.Next(x) {
			c.unit(x, out)
		}
		return
	case k.IsCoercion():
		c.coercion(id, out)
		return
	case k.IsDeclaration():
		c.declaration(id)
		return
	}

	switch k {
	case token.Identifier:
		c.identifier(id, out)
	case token.Generator:
		c.generator(id, out)
	case token.Slice:
		prim := c.t.Sub(id)
		z := c.pool.get()
		c.unit(prim, &z)
		transient := c.refFlex(c.node(prim).Mode)
		for _, tp := range z {
			tp.transient = tp.transient || transient
			emit(out, tp)
		}
		c.pool.put(z)
		c.rest(prim)
	case token.Selection:
		// a field of a name lives as long as the name
		c.unit(c.t.Last(id), out)
	case token.Cast:
		c.unit(c.t.Last(id), out)
	case token.Call:
		c.call(id)
	case token.Assignation:
		c.assignation(id, out)
	case token.RoutineText:
		c.routineText(id, out)
	case token.SerialClause:
		c.serial(id, out)
	case token.ClosedClause:
		c.serial(c.t.Sub(id), out)
	case token.CollateralClause:
		for u := c.t.Sub(id); u.IsValid(); u = c.t.Next(u) {
			c.unit(u, out)
		}
	case token.ConditionalClause, token.CaseClause, token.ConformityClause:
		c.choice(id, out)
	case token.LabeledUnit:
		c.unit(c.t.Last(id), out)
	default:
		// formulas, relations, loops, parallel clauses: their values are
		// either plain or checked at run time
		for x := c.t.Sub(id); x.IsValid(); x = c.t.Next(x) {
			c.unit(x, nil)
		}
	}
}

// rest checks the siblings after first without collecting tuples.
func (c *checker) rest(first ast.NodeID) {
	for x := c.t.Next(first); x.IsValid(); x = c.t.Next(x) {
		c.unit(x, nil)
	}
}

func emit(out *[]tuple, tp tuple) {
	if out != nil {
		*out = append(*out, tp)
	}
}

// identifier: a variable refers to the range declaring it, a HEAP variable
// to the heap, a parameter to the range calling the routine. Identities
// carry the level assigned at their declaration.
func (c *checker) identifier(id ast.NodeID, out *[]tuple) {
	n := c.node(id)
	tg := c.syms.Tag(n.Tag)
	if tg == nil {
		return
	}
	lex := c.syms.Level(tg.Scope)
	switch {
	case tg.Has(symbols.TagFlagPrelude):
		return
	case tg.Has(symbols.TagFlagScoped):
		emit(out, tuple{level: tg.Level, at: id, transient: tg.Has(symbols.TagFlagTransient)})
	case !c.m.IsRef(tg.Mode):
		return
	case tg.Has(symbols.TagFlagParameter):
		emit(out, tuple{level: lex - 1, at: id})
	case tg.Storage == symbols.StorageHeap:
		emit(out, tuple{level: primal, at: id})
	default:
		emit(out, tuple{level: lex, at: id})
	}
}

// generator: LOC storage belongs to the nearest range with declarations,
// HEAP storage to the heap.
func (c *checker) generator(id ast.NodeID, out *[]tuple) {
	n := c.node(id)
	storage, level := symbols.StorageLoc, c.syms.EffectiveLevel(n.Scope)
	if n.Has(ast.FlagHeap) {
		storage, level = symbols.StorageHeap, primal
	}
	if !n.Tag.IsValid() {
		n.Tag = c.syms.DeclareAnonymous(n.Scope, id, storage)
		tg := c.syms.Tag(n.Tag)
		tg.Mode = n.Mode
		tg.Level = level
		tg.Flags |= symbols.TagFlagScoped
	}
	emit(out, tuple{level: level, at: id})
	c.bounds(c.t.Sub(id))
}

// coercion follows an inserted coercion node. Dereferencing and
// deproceduring deliver values whose scope is only known at run time;
// rowing a flexible name gives a transient name.
func (c *checker) coercion(id ast.NodeID, out *[]tuple) {
	sub := c.t.Sub(id)
	switch c.attr(id) {
	case token.Dereferencing, token.Deproceduring, token.Voiding, token.Widening:
		c.unit(sub, nil)
	case token.Proceduring:
		jump := c.t.Strip(sub)
		if tg := c.syms.Tag(c.node(jump).Tag); tg != nil {
			emit(out, tuple{level: c.syms.Level(tg.Scope), at: jump})
		}
	case token.Rowing, token.Uniting:
		z := c.pool.get()
		c.unit(sub, &z)
		transient := c.attr(id) == token.Rowing && c.refFlex(c.node(sub).Mode)
		for _, tp := range z {
			tp.transient = tp.transient || transient
			emit(out, tp)
		}
		c.pool.put(z)
	default:
		c.unit(sub, out)
	}
}

// call checks that nothing younger than the call is passed. The result is
// checked at run time.
func (c *checker) call(id ast.NodeID) {
	prim := c.t.Sub(id)
	c.unit(prim, nil)
	args := c.t.Next(prim)
	if !c.is(args, token.Arguments) {
		c.rest(prim)
		return
	}
	lv := c.level(id)
	for a := c.t.Sub(args); a.IsValid(); a = c.t.Next(a) {
		z := c.pool.get()
		c.unit(a, &z)
		c.store(z, lv, false, "passed as an argument")
		c.pool.put(z)
	}
}

// assignation: the source must not be younger than every name it may be
// assigned to. The result is the destination.
func (c *checker) assignation(id ast.NodeID, out *[]tuple) {
	dest := c.t.Sub(id)
	src := c.t.Next(dest)
	nd, ns := c.pool.get(), c.pool.get()
	c.unit(dest, &nd)
	c.unit(src, &ns)
	for _, d := range nd {
		if !c.store(ns, d.level, true, "assigned to "+c.describe(d.at)) {
			break
		}
	}
	if len(nd) > 0 {
		lv, possible := youngest(nd)
		emit(out, tuple{level: lv, possible: possible, at: id})
	}
	c.pool.put(nd)
	c.pool.put(ns)
}

// routineText checks that the body delivers nothing local to the routine
// and gives the routine the level of the youngest range it uses.
func (c *checker) routineText(id ast.NodeID, out *[]tuple) {
	n := c.node(id)
	body := c.t.Last(id)
	own := c.syms.Level(n.Own)
	z := c.pool.get()
	c.unit(body, &z)
	c.store(z, own, true, "returned from a routine")
	c.pool.put(z)

	level := c.environ(id)
	if !n.Tag.IsValid() {
		n.Tag = c.syms.DeclareAnonymous(n.Scope, id, symbols.StorageNone)
		tg := c.syms.Tag(n.Tag)
		tg.Mode = n.Mode
		tg.Level = level
		tg.Flags |= symbols.TagFlagScoped
	}
	emit(out, tuple{level: level, at: id})
}

// environ is the level of the youngest range outside the routine text whose
// identifiers, operators or labels the routine uses.
func (c *checker) environ(routine ast.NodeID) int {
	own := c.node(routine).Own
	level := primal
	c.t.Walk(routine, func(x ast.NodeID, _ int) bool {
		tg := c.syms.Tag(c.node(x).Tag)
		if tg == nil || tg.Has(symbols.TagFlagPrelude) {
			return true
		}
		switch tg.Kind {
		case symbols.TagAnonymous, symbols.TagIndicant, symbols.TagPriority:
			return true
		}
		if c.is(x, token.DefiningIdentifier, token.DefiningOperator, token.DefiningLabel, token.DefiningIndicant) {
			return true
		}
		if !c.syms.IsAncestor(own, tg.Scope) {
			level = max(level, c.syms.Level(tg.Scope))
		}
		return true
	})
	return level
}

// serial: declarations are checked in order; every unit is checked, and
// the last unit and each unit ending in EXIT deliver the value.
func (c *checker) serial(sc ast.NodeID, out *[]tuple) {
	if !c.is(sc, token.SerialClause) {
		c.unit(sc, out)
		return
	}
	for p := c.t.Sub(sc); p.IsValid(); p = c.t.Next(p) {
		if c.s.Halted() {
			return
		}
		if c.is(p, token.Exit) {
			continue
		}
		next := c.t.Next(p)
		if next.IsValid() && !c.is(next, token.Exit) {
			c.unit(p, nil)
			continue
		}
		c.unit(p, out)
	}
}

// choice collects what every branch may deliver. A value is certain only
// when every branch delivers something at least as young; otherwise the
// escape depends on the enquiry and is only possible.
func (c *checker) choice(id ast.NodeID, out *[]tuple) {
	z := c.pool.get()
	floor := math.MaxInt
	branch := func(from int) {
		lv := primal - 1
		for _, tp := range z[from:] {
			if !tp.possible {
				lv = max(lv, tp.level)
			}
		}
		floor = min(floor, lv)
	}
	for p := c.t.Sub(id); p.IsValid(); p = c.t.Next(p) {
		switch c.attr(p) {
		case token.IfPart, token.ElifPart, token.CasePart, token.OusePart:
			c.serial(c.t.Sub(p), nil)
		case token.ThenPart, token.ElsePart, token.OutPart:
			from := len(z)
			c.serial(c.t.Sub(p), &z)
			branch(from)
		case token.CaseInPart:
			for u := c.t.Sub(p); u.IsValid(); u = c.t.Next(u) {
				from := len(z)
				c.unit(u, &z)
				branch(from)
			}
		case token.ConformityInPart:
			for su := c.t.Sub(p); su.IsValid(); su = c.t.Next(su) {
				from := len(z)
				c.unit(c.t.Last(su), &z)
				branch(from)
			}
		}
	}
	// a clause without ELSE or OUT may also deliver SKIP
	if !c.is(c.t.Last(id), token.ElsePart, token.OutPart) {
		floor = primal - 1
	}
	for _, tp := range z {
		tp.possible = tp.possible || tp.level > floor
		emit(out, tp)
	}
	c.pool.put(z)
}

// declaration checks sources against the level of what they initialise.
// An identity takes the level of the youngest value it may stand for.
func (c *checker) declaration(d ast.NodeID) {
	n := c.node(d)
	if n.Has(ast.FlagRecovered) {
		return
	}
	for x := c.t.Sub(d); x.IsValid(); x = c.t.Next(x) {
		switch {
		case c.is(x, token.Declarer):
			c.bounds(x)
			continue
		case !c.is(x, token.DefiningIdentifier, token.DefiningOperator):
			continue
		}
		src := c.t.Next(x)
		if !c.is(src, token.Unit) {
			continue
		}
		tg := c.syms.Tag(c.node(x).Tag)
		z := c.pool.get()
		c.unit(src, &z)
		switch n.Attr {
		case token.VariableDeclaration, token.ProcedureVariableDeclaration:
			dest := c.level(x)
			if tg != nil && tg.Storage == symbols.StorageHeap {
				dest = primal
			}
			c.store(z, dest, true, "assigned to "+c.t.Text(x))
		default:
			c.store(z, c.level(x), true, "given to "+c.t.Text(x))
			if tg != nil && len(z) > 0 {
				tg.Level, _ = youngest(z)
				tg.Flags |= symbols.TagFlagScoped
			}
		}
		c.pool.put(z)
	}
}

// bounds checks the units inside a declarer.
func (c *checker) bounds(decl ast.NodeID) {
	if !decl.IsValid() {
		return
	}
	c.t.Walk(decl, func(id ast.NodeID, _ int) bool {
		if !c.is(id, token.Bound) {
			return true
		}
		for u := c.t.Sub(id); u.IsValid(); u = c.t.Next(u) {
			if c.is(u, token.Unit) {
				c.unit(u, nil)
			}
		}
		return false
	})
}
