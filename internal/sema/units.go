package sema

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/token"
)

// unwrap follows dereferencing and deprocedurings from m while stop
// rejects the mode reached, and returns the first mode stop accepts.
func (c *checker) unwrap(m modes.ModeID, derefs bool, stop func(modes.ModeID) bool) (modes.ModeID, bool) {
	cur := m
	for i := 0; i < maxChain; i++ {
		if stop(cur) {
			return cur, true
		}
		mm := c.m.Get(c.m.Resolve(cur))
		switch {
		case mm == nil:
			return cur, false
		case mm.Kind == modes.Proc && len(mm.Pack) == 0:
			cur = mm.Sub
		case mm.Kind == modes.Ref && derefs:
			cur = mm.Sub
		default:
			return cur, false
		}
	}
	return cur, false
}

func (c *checker) isRowOrName(m modes.ModeID) bool {
	return c.m.IsRowLike(m) || (c.m.IsRef(m) && c.m.IsRowLike(c.m.SubOf(m)))
}

// call checks primary(arguments). In bracket mode a row followed by
// parentheses is a slice after all.
func (c *checker) call(id ast.NodeID) modes.ModeID {
	prim := c.t.Sub(id)
	args := c.t.Next(prim)
	pm := c.unit(prim, anyIn(ast.Meek))
	if c.isError(pm) {
		c.argsAny(args)
		return c.std.Error
	}
	target, ok := c.unwrap(pm, true, func(m modes.ModeID) bool {
		k := c.m.KindOf(m)
		return (k == modes.Proc && len(c.m.Pack(m)) > 0) || c.isRowOrName(m)
	})
	if ok && c.isRowOrName(target) && c.s.Opts.Brackets {
		c.t.Retag(id, token.Slice)
		c.t.Retag(args, token.Indexer)
		return c.slice(id, prim, pm)
	}
	if !ok || c.m.KindOf(target) != modes.Proc {
		c.errorAt(diag.ModNotCallable, prim, "%s of mode %s cannot be called", c.t.Describe(c.t.Strip(prim)), c.str(pm))
		c.argsAny(args)
		return c.std.Error
	}
	c.coerce(prim, pm, meek(target))
	params := c.m.Pack(target)
	units := c.t.Children(args)
	if len(units) != len(params) {
		c.errorAt(diag.ModArgumentCount, args, "%s takes %s arguments, not %s", c.str(target), itoa(len(params)), itoa(len(units)))
	}
	for i, u := range units {
		if i < len(params) {
			c.unit(u, strong(params[i].Mode))
		} else {
			c.unit(u, anyIn(ast.Strong))
		}
	}
	return c.m.SubOf(target)
}

func (c *checker) argsAny(args ast.NodeID) {
	for u := c.t.Sub(args); u.IsValid(); u = c.t.Next(u) {
		c.unit(u, anyIn(ast.Strong))
	}
}

// slice checks primary[indexer]. A subscript removes a dimension, a
// trimmer keeps it. Slicing a name of a row gives a name.
func (c *checker) slice(id, prim ast.NodeID, pm modes.ModeID) modes.ModeID {
	if !prim.IsValid() {
		prim = c.t.Sub(id)
		pm = c.unit(prim, anyIn(ast.Weak))
	}
	idx := c.t.Next(prim)
	subs, trims := c.indexer(idx)
	if c.isError(pm) {
		return c.std.Error
	}
	target, ok := c.unwrap(pm, true, c.isRowOrName)
	if !ok {
		c.errorAt(diag.ModNotSliceable, prim, "%s of mode %s cannot be sliced", c.t.Describe(c.t.Strip(prim)), c.str(pm))
		return c.std.Error
	}
	c.coerce(prim, pm, Soid{Sort: ast.Weak, Mode: target})
	name := c.m.IsRef(target)
	row := target
	if name {
		row = c.m.SubOf(target)
	}
	dim := c.m.Dim(row)
	if subs+trims != dim {
		c.errorAt(diag.ModIndexerCount, idx, "%s has %s dimensions but is indexed with %s", c.str(row), itoa(dim), itoa(subs+trims))
		return c.std.Error
	}
	elem := c.m.Row(trims, c.elementOf(row))
	if name {
		return c.m.Ref(elem)
	}
	return elem
}

// elementOf returns X of [,]X or FLEX [,]X.
func (c *checker) elementOf(row modes.ModeID) modes.ModeID {
	m := c.m.Get(c.m.Resolve(row))
	if m != nil && m.Kind == modes.Flex {
		m = c.m.Get(c.m.Resolve(m.Sub))
	}
	if m == nil || m.Kind != modes.Row {
		return c.std.Error
	}
	return m.Sub
}

// indexer checks the subscripts and trimmers and counts them.
func (c *checker) indexer(idx ast.NodeID) (subs, trims int) {
	for x := c.t.Sub(idx); x.IsValid(); x = c.t.Next(x) {
		switch c.attr(x) {
		case token.Trimmer:
			trims++
			for u := c.t.Sub(x); u.IsValid(); u = c.t.Next(u) {
				if c.is(u, token.Unit) {
					c.unit(u, meek(c.std.Int))
				}
			}
		case token.Unit:
			subs++
			c.unit(x, meek(c.std.Int))
		}
	}
	return subs, trims
}

// selection checks field OF secondary for a structure, a name of a
// structure, a row of structures or a name of such a row.
func (c *checker) selection(id ast.NodeID) modes.ModeID {
	field := c.t.Sub(id)
	sec := c.t.Next(field)
	name := c.t.Text(field)
	sm := c.unit(sec, anyIn(ast.Weak))
	if c.isError(sm) {
		return c.std.Error
	}
	var result modes.ModeID
	target, ok := c.unwrap(sm, true, func(m modes.ModeID) bool {
		if f, found := c.fieldOf(m, name); found {
			result = f
			return true
		}
		return false
	})
	if !ok {
		c.errorAt(diag.ModNoField, field, "%s has no field %s", c.str(sm), name)
		return c.std.Error
	}
	c.coerce(sec, sm, Soid{Sort: ast.Weak, Mode: target})
	return result
}

func (c *checker) fieldOf(m modes.ModeID, name string) (modes.ModeID, bool) {
	switch c.m.KindOf(m) {
	case modes.Struct:
		return c.m.Field(m, name)
	case modes.Row, modes.Flex:
		if mult := c.m.Multiple(m); mult.IsValid() {
			return c.m.Field(mult, name)
		}
	case modes.Ref:
		if c.m.KindOf(c.m.SubOf(m)) == modes.Struct {
			f, ok := c.m.Field(c.m.SubOf(m), name)
			if ok {
				return c.m.Ref(f), true
			}
			return modes.NoModeID, false
		}
		if nf := c.m.NameForm(m); nf.IsValid() {
			return c.m.Field(nf, name)
		}
	}
	return modes.NoModeID, false
}

func (c *checker) cast(id ast.NodeID) modes.ModeID {
	decl := c.t.Sub(id)
	m := c.declarer(decl)
	c.boundsIn(decl)
	c.unit(c.t.Next(decl), Soid{Sort: ast.Strong, Mode: m, Cast: true})
	return m
}

func (c *checker) generator(id ast.NodeID) modes.ModeID {
	decl := c.t.Sub(id)
	c.boundsIn(decl)
	return c.m.Ref(c.declarer(decl))
}

// assignation: the destination is a soft name, the source strong to what
// it refers to.
func (c *checker) assignation(id ast.NodeID) modes.ModeID {
	dest := c.t.Sub(id)
	src := c.t.Next(dest)
	dm := c.unit(dest, anyIn(ast.Soft))
	if c.isError(dm) {
		c.unit(src, anyIn(ast.Strong))
		return c.std.Error
	}
	name, ok := c.unwrap(dm, false, c.m.IsRef)
	if !ok {
		c.errorAt(diag.ModNotAName, dest, "%s of mode %s is not a name and cannot be assigned to", c.t.Describe(c.t.Strip(dest)), c.str(dm))
		c.unit(src, anyIn(ast.Strong))
		return c.std.Error
	}
	c.coerce(dest, dm, Soid{Sort: ast.Soft, Mode: name})
	c.unit(src, strong(c.m.SubOf(name)))
	return name
}

// identityRelation compares two names of one mode. Either side may be
// dereferenced until the modes agree; NIL takes the other side's mode.
func (c *checker) identityRelation(id ast.NodeID) modes.ModeID {
	l := c.t.Sub(id)
	r := c.t.Next(c.t.Next(l))
	lm := c.unit(l, anyIn(ast.Soft))
	rm := c.unit(r, anyIn(ast.Soft))
	if c.isError(lm) || c.isError(rm) {
		return c.std.Bool
	}
	m, ok := c.commonName(lm, rm)
	if !ok {
		c.errorAt(diag.ModNoUniqueMode, id, "names of modes %s and %s cannot be compared", c.str(lm), c.str(rm))
		return c.std.Bool
	}
	c.coerce(l, lm, strong(m))
	c.coerce(r, rm, strong(m))
	return c.std.Bool
}

// names lists the name modes m reaches by dereferencing, nearest first.
func (c *checker) names(m modes.ModeID) []modes.ModeID {
	var out []modes.ModeID
	cur := m
	for i := 0; i < maxChain; i++ {
		mm := c.m.Get(c.m.Resolve(cur))
		if mm == nil {
			break
		}
		switch {
		case mm.Kind == modes.Ref:
			out = append(out, cur)
			cur = mm.Sub
			continue
		case mm.Kind == modes.Proc && len(mm.Pack) == 0:
			cur = mm.Sub
			continue
		}
		break
	}
	return out
}

func (c *checker) commonName(lm, rm modes.ModeID) (modes.ModeID, bool) {
	ln, rn := c.names(lm), c.names(rm)
	switch {
	case c.isHip(lm) && c.isHip(rm):
		return modes.NoModeID, false
	case c.isHip(lm):
		if len(rn) == 0 {
			return modes.NoModeID, false
		}
		return rn[0], true
	case c.isHip(rm):
		if len(ln) == 0 {
			return modes.NoModeID, false
		}
		return ln[0], true
	}
	for _, a := range ln {
		for _, b := range rn {
			if c.m.Equal(a, b) {
				return a, true
			}
		}
	}
	return modes.NoModeID, false
}

// routineText checks the body against the declared result.
func (c *checker) routineText(id ast.NodeID) modes.ModeID {
	m := c.routine(id)
	body := c.t.Last(id)
	if c.isError(m) || !c.is(body, token.Unit) {
		return m
	}
	c.unit(body, strong(c.m.SubOf(m)))
	return m
}
