package modes

// Equal decides structural equivalence of two modes. Recursive modes are
// compared co-inductively: a pair already under comparison is assumed equal.
// The assumption stack starts empty for every top-level query, so a failed
// attempt never leaks assumptions into later ones.
func (t *Table) Equal(a, b ModeID) bool {
	t.assume = t.assume[:0]
	return t.equal(a, b)
}

func (t *Table) equal(a, b ModeID) bool {
	a, b = t.Resolve(a), t.Resolve(b)
	if a == b {
		return true
	}
	ma, mb := t.Get(a), t.Get(b)
	if ma == nil || mb == nil || ma.Kind != mb.Kind {
		return false
	}
	for _, p := range t.assume {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return true
		}
	}
	t.assume = append(t.assume, pair{a: a, b: b})
	ok := t.equalShape(ma, mb)
	t.assume = t.assume[:len(t.assume)-1]
	return ok
}

func (t *Table) equalShape(ma, mb *Mode) bool {
	switch ma.Kind {
	case Standard:
		return ma.Name == mb.Name && ma.Size == mb.Size
	case Indicant:
		// both unresolved: distinct declarations stay distinct
		return false
	case Ref, Flex:
		return t.equal(ma.Sub, mb.Sub)
	case Row:
		return ma.Dim == mb.Dim && t.equal(ma.Sub, mb.Sub)
	case Proc:
		return len(ma.Pack) == len(mb.Pack) && t.equalPacks(ma.Pack, mb.Pack, false) && t.equal(ma.Sub, mb.Sub)
	case Struct:
		return len(ma.Pack) == len(mb.Pack) && t.equalPacks(ma.Pack, mb.Pack, true)
	case Series, Stowed:
		return len(ma.Pack) == len(mb.Pack) && t.equalPacks(ma.Pack, mb.Pack, false)
	case Union:
		return t.unionCovers(ma.Pack, mb.Pack) && t.unionCovers(mb.Pack, ma.Pack)
	case Error, Vacuum, Hip:
		return true
	}
	return false
}

func (t *Table) equalPacks(pa, pb []Field, names bool) bool {
	for i := range pa {
		if names && pa[i].Name != pb[i].Name {
			return false
		}
		if !t.equal(pa[i].Mode, pb[i].Mode) {
			return false
		}
	}
	return true
}

// unionCovers reports whether every variant of a has an equal variant in b.
func (t *Table) unionCovers(a, b []Field) bool {
	for _, va := range a {
		found := false
		for _, vb := range b {
			if t.equal(va.Mode, vb.Mode) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// InUnion reports whether m is equal to one of the variants of union u.
func (t *Table) InUnion(m, u ModeID) bool {
	if t.KindOf(u) != Union {
		return false
	}
	for _, v := range t.Pack(u) {
		if t.Equal(v.Mode, m) {
			return true
		}
	}
	return false
}

// UnionContains reports whether every variant of sub is a variant of u.
func (t *Table) UnionContains(u, sub ModeID) bool {
	if t.KindOf(u) != Union || t.KindOf(sub) != Union {
		return false
	}
	t.assume = t.assume[:0]
	return t.unionCovers(t.Pack(sub), t.Pack(u))
}
