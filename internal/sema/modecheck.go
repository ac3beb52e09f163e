package sema

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"a68/internal/ast"
	"a68/internal/bignum"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/session"
	"a68/internal/token"
)

// CheckModes derives the a-priori mode of every unit and checks that its
// context can coerce it to the mode required there. Units are checked top
// down with a Soid; the program itself stands in a strong void context.
func CheckModes(s *session.Session) session.Status {
	c := newChecker(s)
	sc := c.t.Sub(c.t.Root)
	if !c.is(sc, token.SerialClause) {
		return c.finish()
	}
	c.serial(sc, strong(c.std.Void))
	return c.finish()
}

// unit checks one unit or construct against w and returns the mode it
// delivers to its context.
func (c *checker) unit(id ast.NodeID, w Soid) modes.ModeID {
	n := c.node(id)
	if n == nil {
		return c.std.Error
	}
	if n.Has(ast.FlagRecovered) {
		n.Mode = c.std.Error
		return c.std.Error
	}
	if !c.s.Enter(n.Span) {
		return c.std.Error
	}
	defer c.s.Leave()
	if n.Attr == token.Unit {
		m := c.unit(c.t.Sub(id), w)
		c.node(id).Mode = m
		return m
	}
	have := c.apriori(id, w)
	return c.coerce(id, have, w)
}

// coerce records the a-priori mode and, in a specific context, the mode
// wanted there. It returns the mode the context sees.
func (c *checker) coerce(id ast.NodeID, have modes.ModeID, w Soid) modes.ModeID {
	n := c.node(id)
	n.Mode = have
	if !w.specific() {
		return have
	}
	n.Want = w.Mode
	n.Sort = w.Sort
	if n.Attr == token.Nihil && !c.m.IsRef(w.Mode) && !c.isError(w.Mode) && !c.isVoid(w.Mode) {
		c.errorAt(diag.ModNilContext, id, "NIL cannot stand where %s is required", c.str(w.Mode))
		n.Mode = c.std.Error
		return c.std.Error
	}
	if c.m.KindOf(have) == modes.Stowed {
		c.stow(id, w.Mode)
	}
	if _, ok := c.plan(have, w.Mode, w.Sort); !ok {
		c.errorAt(diag.ModIncoercible, id, "%s cannot be coerced to %s in a %s context",
			c.str(have), c.str(w.Mode), strings.ToLower(w.Sort.String()))
		n.Mode = c.std.Error
		return c.std.Error
	}
	return w.Mode
}

// apriori dispatches on the construct.
func (c *checker) apriori(id ast.NodeID, w Soid) modes.ModeID {
	switch c.attr(id) {
	case token.Denotation:
		return c.denotation(id)
	case token.Identifier:
		return c.identifier(id)
	case token.Jump, token.SkipUnit:
		return c.std.Hip
	case token.Nihil:
		return c.nihil(id, w)
	case token.Call:
		return c.call(id)
	case token.Slice:
		return c.slice(id, ast.NoNodeID, modes.NoModeID)
	case token.Selection:
		return c.selection(id)
	case token.Cast:
		return c.cast(id)
	case token.Generator:
		return c.generator(id)
	case token.MonadicFormula:
		return c.monadic(id)
	case token.Formula:
		return c.formula(id)
	case token.Assignation:
		return c.assignation(id)
	case token.IdentityRelation:
		return c.identityRelation(id)
	case token.RoutineText:
		return c.routineText(id)
	case token.ClosedClause:
		return c.serial(c.t.Sub(id), w)
	case token.CollateralClause:
		return c.collateral(id, w)
	case token.ParallelClause:
		return c.parallel(id)
	case token.ConditionalClause:
		return c.conditional(id, w)
	case token.CaseClause:
		return c.caseClause(id, w)
	case token.ConformityClause:
		return c.conformity(id, w)
	case token.LoopClause:
		return c.loop(id)
	case token.FormatText:
		return c.std.Format
	}
	return c.std.Error
}

func (c *checker) identifier(id ast.NodeID) modes.ModeID {
	tg := c.syms.Tag(c.node(id).Tag)
	if tg == nil || !tg.Mode.IsValid() {
		return c.std.Error
	}
	return tg.Mode
}

// nihil: NIL has the mode of whatever name its context requires, so an
// operand position cannot give it one.
func (c *checker) nihil(id ast.NodeID, w Soid) modes.ModeID {
	if !w.specific() && w.Sort == ast.Firm {
		c.errorAt(diag.ModNilContext, id, "NIL cannot be an operand")
		return c.std.Error
	}
	return c.std.Hip
}

func (c *checker) denotation(id ast.NodeID) modes.ModeID {
	lit := c.t.Sub(id)
	size := int(c.node(id).Info)
	text := c.t.Text(lit)
	switch c.attr(lit) {
	case token.True, token.False:
		return c.std.Bool
	case token.Empty:
		return c.std.Void
	case token.RowCharDenotation:
		if utf8.RuneCountInString(text) == 1 {
			return c.std.Char
		}
		return c.std.RowChar
	case token.IntDenotation:
		m := c.sized(id, "INT", size)
		if v, err := bignum.ParseDecimal(text); err != nil || !c.s.Digits.FitsInt(v, size) {
			c.errorAt(diag.ModDenotationRange, id, "denotation %s is out of range for %s", text, c.str(m))
		}
		return m
	case token.RealDenotation:
		m := c.sized(id, "REAL", size)
		if !c.s.Digits.FitsRealDigits(mantissaDigits(text), size) {
			c.errorAt(diag.ModDenotationRange, id, "denotation %s has more digits than %s holds", text, c.str(m))
		}
		return m
	case token.BitsDenotation:
		m := c.sized(id, "BITS", size)
		if v, _, err := bignum.ParseBits(text); err != nil || !c.s.Digits.FitsBits(v, size) {
			c.errorAt(diag.ModDenotationRange, id, "denotation %s is out of range for %s", text, c.str(m))
		}
		return m
	}
	return c.std.Error
}

// sized returns a LONG or SHORT standard mode, reporting sizes that do not exist.
func (c *checker) sized(id ast.NodeID, name string, size int) modes.ModeID {
	if m := c.m.LookupStandard(name, size); m.IsValid() {
		return m
	}
	c.errorAt(diag.ModDenotationRange, id, "there is no %s denotation", sizeWords(size)+name)
	return c.std.Error
}

// mantissaDigits counts the significant digits of a real denotation.
func mantissaDigits(text string) int {
	if i := strings.IndexAny(text, "eE\\"); i >= 0 {
		text = text[:i]
	}
	n, lead := 0, true
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		if lead && r == '0' {
			continue
		}
		lead = false
		n++
	}
	return n
}

// serial checks the phrases of a serial clause. The last unit and every
// unit before EXIT yield the value of the clause.
func (c *checker) serial(sc ast.NodeID, w Soid) modes.ModeID {
	if !c.is(sc, token.SerialClause) {
		return c.unit(sc, w)
	}
	if w.specific() {
		c.phrases(sc, w, nil)
		c.node(sc).Mode = w.Mode
		return w.Mode
	}
	ys := c.pool.get()
	c.phrases(sc, w, &ys)
	m := c.balance(ys, sc)
	c.pool.put(ys)
	c.node(sc).Mode = m
	return m
}

// phrases checks every phrase of sc. Yields are coerced to w when it is
// specific, otherwise collected into ys.
func (c *checker) phrases(sc ast.NodeID, w Soid, ys *[]yield) {
	n := c.node(sc)
	if n.Has(ast.FlagRecovered) {
		return
	}
	for p := c.t.Sub(sc); p.IsValid(); p = c.t.Next(p) {
		if c.s.Halted() {
			return
		}
		k := c.attr(p)
		switch {
		case k == token.Exit:
			continue
		case k.IsDeclaration():
			c.declaration(p)
			continue
		}
		u := p
		if k == token.LabeledUnit {
			u = c.t.Last(p)
		}
		next := c.t.Next(p)
		if next.IsValid() && !c.is(next, token.Exit) {
			c.voided(u)
			continue
		}
		if ys == nil {
			c.unit(u, w)
			continue
		}
		*ys = append(*ys, yield{node: u, mode: c.unit(u, anyIn(w.Sort))})
	}
}

// voided checks a unit whose value is thrown away and warns when the unit
// does nothing but compute that value.
func (c *checker) voided(u ast.NodeID) {
	c.unit(u, strong(c.std.Void))
	inner := c.t.Strip(u)
	n := c.node(inner)
	if n == nil || c.isError(n.Mode) {
		return
	}
	switch n.Attr {
	case token.Identifier:
		if c.m.KindOf(n.Mode) == modes.Proc {
			return
		}
	case token.Formula, token.MonadicFormula:
		if c.isVoid(n.Mode) || c.m.IsRef(n.Mode) {
			return
		}
	case token.Cast:
		if c.isVoid(n.Mode) {
			return
		}
	case token.Denotation, token.Selection, token.Slice, token.IdentityRelation, token.Generator:
	default:
		return
	}
	c.warnAt(diag.ModVoided, inner, "value of %s of mode %s is discarded", c.t.Describe(inner), c.str(n.Mode))
}

// balance finds the one mode every yield strongly coerces to and coerces
// them. Among candidates a flexible mode wins.
func (c *checker) balance(ys []yield, at ast.NodeID) modes.ModeID {
	var cands []modes.ModeID
	for _, y := range ys {
		if c.adapts(y.mode) {
			continue
		}
		if c.m.KindOf(y.mode) == modes.Flex {
			cands = append([]modes.ModeID{y.mode}, cands...)
			continue
		}
		cands = append(cands, y.mode)
	}
	if len(cands) == 0 {
		for _, y := range ys {
			if c.isError(y.mode) {
				return c.std.Error
			}
		}
		if len(ys) == 0 {
			return c.std.Void
		}
		return ys[0].mode
	}
	chosen := modes.NoModeID
	for _, m := range cands {
		if c.m.KindOf(m) == modes.Stowed {
			continue
		}
		ok := true
		for _, y := range ys {
			if !c.adapts(y.mode) && !c.coercible(y.mode, m, ast.Strong) {
				ok = false
				break
			}
		}
		if ok {
			chosen = m
			break
		}
	}
	if !chosen.IsValid() {
		names := make([]string, 0, len(cands))
		for _, m := range cands {
			names = append(names, c.str(m))
		}
		c.errorAt(diag.ModNoUniqueMode, at, "no unique mode for %s yielding %s", c.t.Describe(c.node(at).Parent), strings.Join(names, ", "))
		return c.std.Error
	}
	for _, y := range ys {
		if !c.isError(y.mode) {
			c.coerce(y.node, y.mode, strong(chosen))
		}
	}
	return chosen
}

// adapts: modes that take whatever mode a balance settles on.
func (c *checker) adapts(m modes.ModeID) bool {
	switch c.m.KindOf(m) {
	case modes.Hip, modes.Error, modes.Vacuum:
		return true
	}
	return !m.IsValid()
}

// declaration checks the sources of one declaration against the modes of
// the tags it defines.
func (c *checker) declaration(d ast.NodeID) {
	n := c.node(d)
	if n.Has(ast.FlagRecovered) {
		return
	}
	switch n.Attr {
	case token.ModeDeclaration:
		for x := c.t.Sub(d); x.IsValid(); x = c.t.Next(x) {
			if c.is(x, token.Declarer) {
				c.boundsIn(x)
			}
		}
		return
	case token.PriorityDeclaration:
		return
	case token.IdentityDeclaration, token.VariableDeclaration:
		if first := c.t.Sub(d); c.is(first, token.Declarer) {
			c.boundsIn(first)
		}
	}
	for x := c.t.Sub(d); x.IsValid(); x = c.t.Next(x) {
		if !c.is(x, token.DefiningIdentifier, token.DefiningOperator) {
			continue
		}
		src := c.t.Next(x)
		if !c.is(src, token.Unit) {
			continue
		}
		tg := c.syms.Tag(c.node(x).Tag)
		if tg == nil {
			continue
		}
		want := tg.Mode
		if n.Attr == token.VariableDeclaration || n.Attr == token.ProcedureVariableDeclaration {
			want = c.m.SubOf(want)
		}
		c.unit(src, strong(want))
	}
}

// boundsIn checks the bounds of a declarer: each is a meek INT.
func (c *checker) boundsIn(decl ast.NodeID) {
	c.t.Walk(decl, func(id ast.NodeID, _ int) bool {
		if !c.is(id, token.Bound) {
			return true
		}
		for u := c.t.Sub(id); u.IsValid(); u = c.t.Next(u) {
			if c.is(u, token.Unit) {
				c.unit(u, meek(c.std.Int))
			}
		}
		return false
	})
}

func itoa(n int) string { return strconv.Itoa(n) }
