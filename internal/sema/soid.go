package sema

import (
	"a68/internal/ast"
	"a68/internal/modes"
)

// Soid is what a context demands of a unit: a sort and, when the context
// knows it, a mode. A Soid without a mode asks the unit for its own.
type Soid struct {
	Sort ast.Sort
	Mode modes.ModeID
	// Cast marks the strong context of a cast.
	Cast bool
}

func strong(m modes.ModeID) Soid { return Soid{Sort: ast.Strong, Mode: m} }
func firm(m modes.ModeID) Soid   { return Soid{Sort: ast.Firm, Mode: m} }
func meek(m modes.ModeID) Soid   { return Soid{Sort: ast.Meek, Mode: m} }

// any asks for the a-priori mode in a context of the given sort.
func anyIn(sort ast.Sort) Soid { return Soid{Sort: sort} }

func (w Soid) specific() bool { return w.Mode.IsValid() }

// yield is one unit that delivers the value of a clause.
type yield struct {
	node ast.NodeID
	mode modes.ModeID
}

// soidPool recycles the yield lists of balanced clauses; nesting depth
// bounds how many are live at once.
type soidPool struct {
	free [][]yield
}

func (p *soidPool) get() []yield {
	if n := len(p.free); n > 0 {
		ys := p.free[n-1]
		p.free = p.free[:n-1]
		return ys[:0]
	}
	return make([]yield, 0, 4)
}

func (p *soidPool) put(ys []yield) {
	if cap(ys) > 0 {
		p.free = append(p.free, ys[:0])
	}
}
