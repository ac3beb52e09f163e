package sema

import (
	"a68/internal/ast"
	"a68/internal/modes"
	"a68/internal/token"
)

// step is one coercion; mode is what the coerced value has afterwards.
type step struct {
	kind token.Kind
	mode modes.ModeID
}

// maxChain bounds how many dereferencings and deprocedurings one coercion
// may need. Well-formed modes never come close.
const maxChain = 32

// coercible reports whether a value of mode a can be coerced to b in a
// context of the given sort.
func (c *checker) coercible(a, b modes.ModeID, sort ast.Sort) bool {
	_, ok := c.plan(a, b, sort)
	return ok
}

// plan finds the coercions that turn a into b. Every coercion legal in a
// weaker sort is also legal in a stronger one. A weak context is treated
// like a meek one.
func (c *checker) plan(a, b modes.ModeID, sort ast.Sort) ([]step, bool) {
	return c.planDepth(a, b, sort, 0)
}

func (c *checker) planDepth(a, b modes.ModeID, sort ast.Sort, depth int) ([]step, bool) {
	if !a.IsValid() || !b.IsValid() || c.isError(a) || c.isError(b) || c.isHip(a) {
		return nil, true
	}
	if depth > maxChain {
		return nil, false
	}
	if c.valueEqual(a, b) {
		return nil, true
	}
	if c.m.KindOf(a) == modes.Vacuum {
		return nil, c.m.IsRowLike(c.m.Deflex(b))
	}
	if c.isVoid(b) {
		return c.voiding(a, sort)
	}
	switch c.m.KindOf(a) {
	case modes.Stowed:
		return nil, c.stowable(a, b, depth)
	}

	var steps []step
	cur := a
	for i := 0; i < maxChain; i++ {
		if c.valueEqual(cur, b) {
			return steps, true
		}
		if sort >= ast.Firm && c.unites(cur, b) {
			return append(steps, step{kind: token.Uniting, mode: b}), true
		}
		if sort == ast.Strong {
			if tail, ok := c.strongTail(cur, b, depth); ok {
				return append(steps, tail...), true
			}
		}
		m := c.m.Get(c.m.Resolve(cur))
		switch {
		case m == nil:
			return nil, false
		case m.Kind == modes.Proc && len(m.Pack) == 0 && sort >= ast.Soft:
			cur = m.Sub
			steps = append(steps, step{kind: token.Deproceduring, mode: cur})
		case m.Kind == modes.Ref && sort >= ast.Weak:
			cur = m.Sub
			steps = append(steps, step{kind: token.Dereferencing, mode: cur})
		default:
			return nil, false
		}
	}
	return nil, false
}

// valueEqual: equal modes, or modes equal once FLEX is dropped from values.
func (c *checker) valueEqual(a, b modes.ModeID) bool {
	if c.m.Equal(a, b) {
		return true
	}
	if c.m.IsRef(a) || c.m.IsRef(b) {
		return false
	}
	return c.m.Equal(c.m.Deflex(a), c.m.Deflex(b))
}

// voiding: only a strong context discards a value. A procedure without
// parameters is called first.
func (c *checker) voiding(a modes.ModeID, sort ast.Sort) ([]step, bool) {
	if sort != ast.Strong {
		return nil, false
	}
	var steps []step
	cur := a
	for i := 0; i < maxChain; i++ {
		m := c.m.Get(c.m.Resolve(cur))
		if m == nil || m.Kind != modes.Proc || len(m.Pack) != 0 {
			break
		}
		cur = m.Sub
		steps = append(steps, step{kind: token.Deproceduring, mode: cur})
	}
	if c.isVoid(cur) {
		return steps, true
	}
	return append(steps, step{kind: token.Voiding, mode: c.std.Void}), true
}

// unites reports whether cur becomes b by uniting: b is a union holding
// cur or every variant of cur, or b is ROWS and cur a row.
func (c *checker) unites(cur, b modes.ModeID) bool {
	if c.m.Same(b, c.std.Rows) {
		return c.m.IsRowLike(cur) || (c.m.IsRef(cur) && c.m.IsRowLike(c.m.SubOf(cur)))
	}
	if c.m.KindOf(b) != modes.Union {
		return false
	}
	if c.m.InUnion(cur, b) || c.m.UnionContains(b, cur) {
		return true
	}
	if !c.m.IsRef(cur) && c.m.InUnion(c.m.Deflex(cur), b) {
		return true
	}
	switch {
	case c.m.Same(b, c.std.Simplout):
		return c.transput(cur, b, 0)
	case c.m.Same(b, c.std.Simplin):
		return c.m.IsRef(cur) && c.transput(c.m.SubOf(cur), b, 0)
	}
	return false
}

// transput reports whether m can be handed to print (u is SIMPLOUT) or
// to read (u is SIMPLIN, m the mode a name refers to). Beyond the plain
// variants this takes rows, structures and unions built from them.
func (c *checker) transput(m, u modes.ModeID, depth int) bool {
	if depth > maxChain {
		return false
	}
	if c.m.Same(u, c.std.Simplin) {
		for _, v := range c.m.Pack(u) {
			if c.m.IsRef(v.Mode) && c.m.Equal(c.m.SubOf(v.Mode), m) {
				return true
			}
		}
	} else if c.m.InUnion(m, u) || c.m.InUnion(c.m.Deflex(m), u) {
		return true
	}
	e := c.m.Get(c.m.Resolve(m))
	if e == nil {
		return false
	}
	switch e.Kind {
	case modes.Flex, modes.Row:
		return c.transput(e.Sub, u, depth+1)
	case modes.Struct, modes.Union:
		if len(e.Pack) == 0 {
			return false
		}
		for _, f := range e.Pack {
			if !c.transput(f.Mode, u, depth+1) {
				return false
			}
		}
		return true
	}
	return false
}

// strongTail tries widening, then rowing, from cur to b.
func (c *checker) strongTail(cur, b modes.ModeID, depth int) ([]step, bool) {
	var steps []step
	for w := c.m.Widened(cur); w.IsValid(); w = c.m.Widened(w) {
		steps = append(steps, step{kind: token.Widening, mode: w})
		if c.valueEqual(w, b) {
			return steps, true
		}
		if len(steps) > 4 {
			break
		}
	}
	return c.rowing(cur, b, depth)
}

// rowing turns a value into a one-element row, or a name into a name of a
// one-element row.
func (c *checker) rowing(cur, b modes.ModeID, depth int) ([]step, bool) {
	if c.m.IsRef(b) {
		target := c.m.SubOf(b)
		if !c.m.IsRowLike(target) {
			return nil, false
		}
		elem := c.rowElement(target)
		if elem.IsValid() && c.m.Equal(cur, c.m.Ref(elem)) {
			return []step{{kind: token.Rowing, mode: b}}, true
		}
		return nil, false
	}
	target := c.m.Deflex(b)
	if !c.m.IsRowLike(target) {
		return nil, false
	}
	elem := c.rowElement(target)
	if !elem.IsValid() {
		return nil, false
	}
	inner, ok := c.planDepth(cur, elem, ast.Strong, depth+1)
	if !ok {
		return nil, false
	}
	return append(inner, step{kind: token.Rowing, mode: b}), true
}

// rowElement is what one row of a (FLEX) row holds: [,]X gives []X, []X gives X.
func (c *checker) rowElement(row modes.ModeID) modes.ModeID {
	m := c.m.Get(c.m.Resolve(row))
	if m != nil && m.Kind == modes.Flex {
		m = c.m.Get(c.m.Resolve(m.Sub))
	}
	if m == nil || m.Kind != modes.Row {
		return modes.NoModeID
	}
	return c.m.Row(m.Dim-1, m.Sub)
}

// stowable checks a display mode member by member against a row or a
// structure.
func (c *checker) stowable(a, b modes.ModeID, depth int) bool {
	members := c.m.Pack(a)
	target := c.m.Deflex(b)
	if c.m.IsRowLike(target) {
		elem := c.rowElement(target)
		for _, f := range members {
			if _, ok := c.planDepth(f.Mode, elem, ast.Strong, depth+1); !ok {
				return false
			}
		}
		return true
	}
	if c.m.KindOf(target) != modes.Struct {
		return false
	}
	fields := c.m.Pack(b)
	if len(fields) != len(members) {
		return false
	}
	for i, f := range members {
		if _, ok := c.planDepth(f.Mode, fields[i].Mode, ast.Strong, depth+1); !ok {
			return false
		}
	}
	return true
}
