package sema

import (
	"fmt"
	"strings"

	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/session"
	"a68/internal/symbols"
	"a68/internal/token"
)

// CollectModes converts every declarer of the tree into a mode, binds mode
// indicants to their definitions and gives every declared identifier and
// operator its mode. It ends by equivalencing the mode table.
func CollectModes(s *session.Session) session.Status {
	c := newChecker(s)
	c.indicants()
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		if c.node(id).Has(ast.FlagRecovered) {
			return false
		}
		if c.is(id, token.Declarer) {
			c.declarer(id)
		}
		return true
	})
	c.bindIndicants()
	for _, bad := range c.m.CheckWellFormed() {
		m := c.m.Get(bad)
		c.errorAt(diag.ModNotWellFormed, m.Node, "mode %s is not well formed: it would need infinite storage", m.Name)
	}
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		n := c.node(id)
		if n.Has(ast.FlagRecovered) {
			return false
		}
		switch n.Attr {
		case token.RoutineText:
			c.routine(id)
		case token.IdentityDeclaration, token.VariableDeclaration,
			token.ProcedureDeclaration, token.ProcedureVariableDeclaration:
			c.identifierModes(id)
		case token.OperatorDeclaration:
			c.operatorModes(id)
		case token.Specifier:
			if last := c.t.Last(id); c.is(last, token.DefiningIdentifier) {
				c.setTagMode(last, c.declarer(c.t.Sub(id)))
			}
		case token.ForPart:
			c.setTagMode(c.t.Sub(id), c.std.Int)
		}
		return !s.Halted()
	})
	st := c.m.Equivalence()
	s.Trace("equivalence", fmt.Sprintf("iterations=%d modes=%d unified=%d converged=%t",
		st.Iterations, st.Modes, st.Unified, st.Converged))
	c.relatedUnions()
	return c.finish()
}

// indicants creates the mode of every indicant a mode declaration defines.
func (c *checker) indicants() {
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		if !c.is(id, token.DefiningIndicant) {
			return true
		}
		n := c.node(id)
		if tg := c.syms.Tag(n.Tag); tg != nil {
			tg.Mode = c.m.NewIndicant(n.Text, n.Tag, id)
		}
		return false
	})
}

func (c *checker) bindIndicants() {
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		if !c.is(id, token.ModeDeclaration) {
			return true
		}
		for def := c.t.Sub(id); def.IsValid(); def = c.t.Next(def) {
			if !c.is(def, token.DefiningIndicant) || !c.is(c.t.Next(def), token.Declarer) {
				continue
			}
			if tg := c.syms.Tag(c.node(def).Tag); tg != nil {
				c.m.Bind(tg.Mode, c.declarer(c.t.Next(def)))
			}
		}
		return true
	})
}

// declarer returns the mode of a Declarer node, computing it once.
func (c *checker) declarer(d ast.NodeID) modes.ModeID {
	n := c.node(d)
	if n == nil || n.Attr != token.Declarer {
		return c.std.Error
	}
	if n.Mode.IsValid() {
		return n.Mode
	}
	m := c.declarerOf(d)
	c.node(d).Mode = m
	return m
}

func (c *checker) declarerOf(d ast.NodeID) modes.ModeID {
	first := c.t.Sub(d)
	next := c.t.Next(first)
	switch c.attr(first) {
	case token.Indicant:
		return c.indicantMode(d, first)
	case token.Ref:
		return c.m.Ref(c.declarer(next))
	case token.Flex:
		return c.m.Flex(c.declarer(next))
	case token.Bounds:
		return c.m.Row(max(int(c.node(first).Info), 1), c.declarer(next))
	case token.Struct:
		return c.structMode(next)
	case token.Union:
		var vs []modes.ModeID
		for v := c.t.Sub(next); v.IsValid(); v = c.t.Next(v) {
			if c.is(v, token.Declarer) {
				vs = append(vs, c.declarer(v))
			}
		}
		return c.m.Union(vs)
	case token.Proc:
		if c.is(next, token.FormalPack) {
			return c.m.Proc(c.formals(next), c.declarer(c.t.Next(next)))
		}
		return c.m.Proc(nil, c.declarer(next))
	case token.FormalPack:
		return c.m.Proc(c.formals(first), c.declarer(next))
	}
	return c.std.Error
}

func (c *checker) formals(pack ast.NodeID) []modes.ModeID {
	var out []modes.ModeID
	for p := c.t.Sub(pack); p.IsValid(); p = c.t.Next(p) {
		if c.is(p, token.Declarer) {
			out = append(out, c.declarer(p))
		}
	}
	return out
}

func (c *checker) structMode(pack ast.NodeID) modes.ModeID {
	var fields []modes.Field
	seen := map[string]bool{}
	for f := c.t.Sub(pack); f.IsValid(); f = c.t.Next(f) {
		if !c.is(f, token.Field) {
			continue
		}
		d := c.t.Sub(f)
		fm := c.declarer(d)
		for name := c.t.Next(d); name.IsValid(); name = c.t.Next(name) {
			text := c.t.Text(name)
			if seen[text] {
				c.errorAt(diag.DclRedefined, name, "field %s is declared twice in one structure", text)
			}
			seen[text] = true
			fields = append(fields, modes.Field{Mode: fm, Name: text})
		}
	}
	return c.m.Struct(fields)
}

func sizeWords(size int) string {
	switch {
	case size > 0:
		return strings.Repeat("LONG ", size)
	case size < 0:
		return strings.Repeat("SHORT ", -size)
	}
	return ""
}

func (c *checker) indicantMode(d, ind ast.NodeID) modes.ModeID {
	size := int(c.node(d).Info)
	name := c.t.Text(ind)
	tg := c.syms.Tag(c.node(ind).Tag)
	if tg == nil {
		// undeclared, reported while parsing
		return c.std.Error
	}
	if tg.Has(symbols.TagFlagPrelude) {
		if m := c.m.LookupStandard(name, size); m.IsValid() {
			return m
		}
		c.errorAt(diag.ModNotWellFormed, d, "mode %s does not exist", sizeWords(size)+name)
		return c.std.Error
	}
	if size != 0 {
		c.errorAt(diag.ModNotWellFormed, d, "%s cannot qualify mode indicant %s", strings.TrimSpace(sizeWords(size)), name)
	}
	if !tg.Mode.IsValid() {
		return c.std.Error
	}
	return tg.Mode
}

// routine computes PROC (parameters) result of a routine text and gives
// the formal parameters their modes.
func (c *checker) routine(rt ast.NodeID) modes.ModeID {
	n := c.node(rt)
	if n.Mode.IsValid() {
		return n.Mode
	}
	kids := c.t.Children(rt)
	i := 0
	var params []modes.ModeID
	if len(kids) > 0 && c.is(kids[0], token.ParameterPack) {
		for p := c.t.Sub(kids[0]); p.IsValid(); p = c.t.Next(p) {
			d := c.t.Sub(p)
			pm := c.declarer(d)
			for id := c.t.Next(d); id.IsValid(); id = c.t.Next(id) {
				params = append(params, pm)
				c.setTagMode(id, pm)
			}
		}
		i = 1
	}
	m := c.std.Error
	if i < len(kids) && c.is(kids[i], token.Declarer) {
		m = c.m.Proc(params, c.declarer(kids[i]))
	}
	c.node(rt).Mode = m
	return m
}

func (c *checker) setTagMode(def ast.NodeID, m modes.ModeID) {
	if tg := c.syms.Tag(c.node(def).Tag); tg != nil {
		tg.Mode = m
	}
}

// routineOf returns the routine text a procedure or operator definition
// is bound to, or reports that there is none.
func (c *checker) routineOf(def ast.NodeID) modes.ModeID {
	u := c.t.Next(def)
	if rt := c.t.Sub(u); c.is(u, token.Unit) && c.is(rt, token.RoutineText) {
		return c.routine(rt)
	}
	if u.IsValid() {
		c.errorAt(diag.ModIncoercible, u, "a routine text must define %s", c.t.Text(def))
	}
	return c.std.Error
}

func (c *checker) identifierModes(d ast.NodeID) {
	kind := c.attr(d)
	var m modes.ModeID
	if kind == token.IdentityDeclaration || kind == token.VariableDeclaration {
		decl := c.t.Sub(d)
		if !c.is(decl, token.Declarer) {
			return
		}
		m = c.declarer(decl)
		if kind == token.VariableDeclaration {
			m = c.m.Ref(m)
		}
	}
	for def := c.t.Sub(d); def.IsValid(); def = c.t.Next(def) {
		if !c.is(def, token.DefiningIdentifier) {
			continue
		}
		switch kind {
		case token.ProcedureDeclaration:
			m = c.routineOf(def)
		case token.ProcedureVariableDeclaration:
			m = c.m.Ref(c.routineOf(def))
		}
		c.setTagMode(def, m)
	}
}

func (c *checker) operatorModes(d ast.NodeID) {
	var head modes.ModeID
	if first := c.t.Sub(d); c.is(first, token.Declarer) {
		head = c.declarer(first)
	}
	for def := c.t.Sub(d); def.IsValid(); def = c.t.Next(def) {
		if !c.is(def, token.DefiningOperator) {
			continue
		}
		m := head
		if !m.IsValid() {
			m = c.routineOf(def)
		}
		c.setTagMode(def, m)
		c.checkOperator(def, m)
	}
}

// checkOperator: an operator is a procedure of one or two parameters and
// a dyadic one needs a priority.
func (c *checker) checkOperator(def ast.NodeID, m modes.ModeID) {
	if c.isError(m) {
		return
	}
	name := c.t.Text(def)
	if c.m.KindOf(m) != modes.Proc {
		c.errorAt(diag.DclInvalidOperator, def, "operator %s must be a procedure, not %s", name, c.str(m))
		return
	}
	switch len(c.m.Pack(m)) {
	case 1:
	case 2:
		if _, ok := c.syms.Priority(c.node(def).Scope, name); !ok {
			c.errorAt(diag.DclNoPriority, def, "dyadic operator %s has no priority", name)
		}
	default:
		c.errorAt(diag.DclInvalidOperator, def, "operator %s must take one or two operands", name)
	}
}

// relatedUnions rejects united modes whose variants coerce into each other
// in a meek context: the choice of variant would be ambiguous.
func (c *checker) relatedUnions() {
	c.t.Walk(c.t.Root, func(id ast.NodeID, _ int) bool {
		if !c.is(id, token.Declarer) || !c.is(c.t.Sub(id), token.Union) {
			return true
		}
		pack := c.m.Pack(c.declarer(id))
		for i := range pack {
			for j := range pack {
				if i == j {
					continue
				}
				a, b := pack[i].Mode, pack[j].Mode
				if c.isError(a) || c.isError(b) {
					continue
				}
				if _, ok := c.plan(a, b, ast.Meek); ok {
					c.errorAt(diag.ModRelatedModes, id, "%s and %s are related in %s", c.str(a), c.str(b), c.str(c.declarer(id)))
					return true
				}
			}
		}
		return true
	})
}
